package models

import "encoding/json"

// Optional はJSONボディにフィールドが「存在したかどうか」を記録します。
// 部分更新では `"description": null` (null をセット) と
// フィールド省略 (更新しない) を区別する必要があり、
// ポインタだけでは両者が同じ nil になってしまうため、この型を使います。
type Optional[T any] struct {
	value T
	set   bool
}

// Some は値がセットされたOptionalを返します。
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// IsSet はフィールドがリクエストに存在したかどうかを返します。
func (o Optional[T]) IsSet() bool {
	return o.set
}

// Value はセットされた値を返します。未セットの場合はゼロ値です。
func (o Optional[T]) Value() T {
	return o.value
}

// UnmarshalJSON はフィールドが存在した場合のみ呼び出されるため、
// 呼ばれた時点で set を立てます。値が null ならゼロ値のままセット扱いです。
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	return json.Unmarshal(data, &o.value)
}
