package items

import (
	"bytes"
	"encoding/json"
)

// Optional distingue "campo omitido" de "campo enviado".
// encoding/json sólo llama a UnmarshalJSON cuando la clave existe en el
// objeto, así que Set queda en false para los campos ausentes.
type Optional[T any] struct {
	Value T
	Set   bool
	// Null indica que el cliente mandó explícitamente null.
	Null bool
}

// Some construye un Optional presente con valor.
func Some[T any](value T) Optional[T] {
	return Optional[T]{Value: value, Set: true}
}

// UnmarshalJSON implementa json.Unmarshaler.
func (optional *Optional[T]) UnmarshalJSON(data []byte) error {
	optional.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		optional.Value = zero
		optional.Null = true
		return nil
	}
	optional.Null = false
	return json.Unmarshal(data, &optional.Value)
}
