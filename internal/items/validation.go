package items

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/JaiCodes77/testing-CRUD/internal/httpx"
)

// ValidationError agrupa los errores de validación de un request.
// El handler lo traduce a 422 con el detalle por campo.
type ValidationError struct {
	Fields []httpx.FieldError
}

func (validationError *ValidationError) Error() string {
	parts := make([]string, 0, len(validationError.Fields))
	for _, field := range validationError.Fields {
		parts = append(parts, strings.Join(field.Loc, ".")+": "+field.Msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// createPayload es la forma cruda del body de POST /items.
// Los punteros permiten distinguir "no vino" de "vino vacío".
type createPayload struct {
	Name        *string  `json:"name" validate:"required"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Reportamos los campos con su nombre JSON, no el de Go.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeCreate valida el body de creación.
// Campos desconocidos (incluido "id") se ignoran.
func DecodeCreate(body io.Reader) (CreateItemInput, error) {
	raw, err := readObject(body)
	if err != nil {
		return CreateItemInput{}, err
	}

	var (
		payload     createPayload
		fieldErrors []httpx.FieldError
	)
	fieldErrors = decodeField(raw, "name", &payload.Name, stringTypeError, fieldErrors)
	fieldErrors = decodeField(raw, "description", &payload.Description, stringTypeError, fieldErrors)
	price, fieldErrors := decodePrice(raw, fieldErrors)
	if price.Set && !price.Null {
		payload.Price = &price.Value
	}

	// null explícito no es "faltante": es un tipo inválido.
	if isNull(raw, "name") {
		fieldErrors = append(fieldErrors, stringTypeError("name"))
	}
	if price.Null {
		fieldErrors = append(fieldErrors, floatTypeError("price"))
	}

	if err := validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return CreateItemInput{}, err
		}
		for _, fieldError := range validationErrors {
			// Un campo con error de tipo ya está reportado.
			if payloadFieldRejected(fieldErrors, fieldError.Field()) {
				continue
			}
			fieldErrors = append(fieldErrors, httpx.FieldError{
				Loc:  []string{"body", fieldError.Field()},
				Msg:  "Field required",
				Type: "missing",
			})
		}
	}

	if len(fieldErrors) > 0 {
		return CreateItemInput{}, &ValidationError{Fields: fieldErrors}
	}

	return CreateItemInput{
		Name:        *payload.Name,
		Description: payload.Description,
		Price:       *payload.Price,
	}, nil
}

// DecodeUpdate valida el body de un update parcial.
// name y price no aceptan null porque las columnas son NOT NULL;
// description sí (se limpia la columna).
func DecodeUpdate(body io.Reader) (UpdateItemInput, error) {
	raw, err := readObject(body)
	if err != nil {
		return UpdateItemInput{}, err
	}

	var (
		input       UpdateItemInput
		fieldErrors []httpx.FieldError
	)
	fieldErrors = decodeField(raw, "name", &input.Name, stringTypeError, fieldErrors)
	fieldErrors = decodeField(raw, "description", &input.Description, stringTypeError, fieldErrors)
	input.Price, fieldErrors = decodePrice(raw, fieldErrors)

	if input.Name.Null {
		fieldErrors = append(fieldErrors, stringTypeError("name"))
	}
	if input.Price.Null {
		fieldErrors = append(fieldErrors, floatTypeError("price"))
	}

	if len(fieldErrors) > 0 {
		return UpdateItemInput{}, &ValidationError{Fields: fieldErrors}
	}
	return input, nil
}

// ParseItemID lee {item_id} del path como entero.
func ParseItemID(request *http.Request) (int64, error) {
	value := chi.URLParam(request, "item_id")
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, &ValidationError{Fields: []httpx.FieldError{{
			Loc:  []string{"path", "item_id"},
			Msg:  "Input should be a valid integer, unable to parse string as an integer",
			Type: "int_parsing",
		}}}
	}
	return id, nil
}

// readObject lee el body y exige que sea un objeto JSON.
// El límite de tamaño lo pone el handler con http.MaxBytesReader; su
// error se devuelve tal cual.
func readObject(body io.Reader) (map[string]json.RawMessage, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || !json.Valid(data) {
		return nil, &ValidationError{Fields: []httpx.FieldError{{
			Loc:  []string{"body"},
			Msg:  "JSON decode error",
			Type: "json_invalid",
		}}}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil, &ValidationError{Fields: []httpx.FieldError{{
			Loc:  []string{"body"},
			Msg:  "Input should be a valid dictionary or object to extract fields from",
			Type: "model_attributes_type",
		}}}
	}
	return raw, nil
}

// decodeField decodifica raw[key] en target si la clave vino.
// Si el tipo no coincide agrega el error correspondiente.
func decodeField(raw map[string]json.RawMessage, key string, target any, typeError func(string) httpx.FieldError, fieldErrors []httpx.FieldError) []httpx.FieldError {
	value, present := raw[key]
	if !present {
		return fieldErrors
	}
	if err := json.Unmarshal(value, target); err != nil {
		return append(fieldErrors, typeError(key))
	}
	return fieldErrors
}

// decodePrice acepta un número JSON o un string numérico ("9.99").
// Bools, objetos y strings no numéricos son float_type.
func decodePrice(raw map[string]json.RawMessage, fieldErrors []httpx.FieldError) (Optional[float64], []httpx.FieldError) {
	value, present := raw["price"]
	if !present {
		return Optional[float64]{}, fieldErrors
	}
	if isNull(raw, "price") {
		return Optional[float64]{Set: true, Null: true}, fieldErrors
	}

	var number float64
	if err := json.Unmarshal(value, &number); err == nil {
		return Some(number), fieldErrors
	}

	var text string
	if err := json.Unmarshal(value, &text); err == nil {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err == nil && !math.IsInf(parsed, 0) && !math.IsNaN(parsed) {
			return Some(parsed), fieldErrors
		}
	}
	return Optional[float64]{Set: true}, append(fieldErrors, floatTypeError("price"))
}

func isNull(raw map[string]json.RawMessage, key string) bool {
	value, present := raw[key]
	return present && bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}

func payloadFieldRejected(fieldErrors []httpx.FieldError, field string) bool {
	for _, fieldError := range fieldErrors {
		if len(fieldError.Loc) == 2 && fieldError.Loc[1] == field {
			return true
		}
	}
	return false
}

func stringTypeError(field string) httpx.FieldError {
	return httpx.FieldError{Loc: []string{"body", field}, Msg: "Input should be a valid string", Type: "string_type"}
}

func floatTypeError(field string) httpx.FieldError {
	return httpx.FieldError{Loc: []string{"body", field}, Msg: "Input should be a valid number", Type: "float_type"}
}
