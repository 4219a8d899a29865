package auth_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-todo-backend/internal/auth"
)

func TestAuthorizeSubject(t *testing.T) {
	id := uuid.New()
	other := uuid.New()

	assert.NoError(t, auth.AuthorizeSubject(id, id))
	assert.ErrorIs(t, auth.AuthorizeSubject(id, other), auth.ErrForbidden)
}

func TestAuthorizeOwnership(t *testing.T) {
	owner := uuid.New()
	requester := uuid.New()

	assert.NoError(t, auth.AuthorizeOwnership(owner, owner))
	assert.ErrorIs(t, auth.AuthorizeOwnership(owner, requester), auth.ErrForbidden)
}

func TestParseResourceID_Valid(t *testing.T) {
	id := uuid.New()

	parsed, err := auth.ParseResourceID(id.String(), "user_id")
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestParseResourceID_Malformed(t *testing.T) {
	for _, raw := range []string{"not-a-uuid", "", "12345", "zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz"} {
		_, err := auth.ParseResourceID(raw, "task_id")
		assert.ErrorIs(t, err, auth.ErrMalformedID, "input %q should be rejected", raw)
		if err != nil {
			assert.Contains(t, err.Error(), "task_id")
		}
	}
}
