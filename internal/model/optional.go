package model

import "encoding/json"

// Optional wraps a change-set field so that three JSON states stay
// distinguishable after decoding: key absent (leave the stored value alone),
// key present with null (clear the stored value), and key present with a
// value (overwrite). Stored records use plain fields; only incoming
// change-set records need the wrapper.
type Optional[T any] struct {
	value T
	set   bool
	null  bool
}

// Some returns an Optional carrying v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Null returns an Optional representing an explicit clear.
func Null[T any]() Optional[T] {
	return Optional[T]{set: true, null: true}
}

// IsSet reports whether the key was present at all.
func (o Optional[T]) IsSet() bool { return o.set }

// IsNull reports whether the key was present as an explicit null.
func (o Optional[T]) IsNull() bool { return o.set && o.null }

// Get returns the wrapped value; ok is false when the field was absent or null.
func (o Optional[T]) Get() (T, bool) {
	if !o.set || o.null {
		var zero T
		return zero, false
	}
	return o.value, true
}

// IsZero makes an unset Optional disappear under the json omitzero option,
// which keeps absent and null distinct on the encode side too.
func (o Optional[T]) IsZero() bool { return !o.set }

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set || o.null {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	if string(data) == "null" {
		o.null = true
		var zero T
		o.value = zero
		return nil
	}
	o.null = false
	return json.Unmarshal(data, &o.value)
}
