package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse es el cuerpo de error que devuelve la API.
// Detail es un string para errores simples o una lista de FieldError
// para errores de validación (mismo formato que consumía el frontend).
type ErrorResponse struct {
	Detail any `json:"detail"`
}

// FieldError describe un problema de validación sobre un campo concreto.
type FieldError struct {
	Loc  []string `json:"loc"`  // ej: ["body", "name"], ["path", "item_id"]
	Msg  string   `json:"msg"`  // mensaje para humanos
	Type string   `json:"type"` // ej: "missing", "float_type"
}

// JSON escribe una respuesta JSON con headers correctos.
// Nota: en caso de error de encodeo, responde 500 de forma segura.
func JSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		// Último recurso: no se pudo serializar JSON.
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"Internal Server Error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// OK devuelve una respuesta exitosa con el recurso tal cual.
func OK(w http.ResponseWriter, status int, data any) {
	JSON(w, status, data)
}

// Fail devuelve un error con un mensaje simple.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Detail: message})
}

// Invalid devuelve 422 con el detalle de cada campo rechazado.
func Invalid(w http.ResponseWriter, fieldErrors []FieldError) {
	JSON(w, http.StatusUnprocessableEntity, ErrorResponse{Detail: fieldErrors})
}

// Internal devuelve un 500 sin filtrar detalles internos.
func Internal(w http.ResponseWriter) {
	Fail(w, http.StatusInternalServerError, "Internal Server Error")
}

// NoContent responde 204 con cuerpo vacío.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
