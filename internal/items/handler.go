package items

import (
	"context"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/JaiCodes77/testing-CRUD/internal/httpx"
)

// Mensajes de 404. El frontend depende de estos textos exactos.
const (
	messageGetNotFound = "item not found!"
	messageNotFound    = "Item not found"
)

// maxBodyBytes acota el tamaño de los payloads JSON.
const maxBodyBytes = 1 << 20

// ServiceAPI define lo que el handler necesita.
// Permite testear handlers con stubs sin tocar DB.
type ServiceAPI interface {
	Create(ctx context.Context, in CreateItemInput) (Item, error)
	List(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id int64) (Item, error)
	Update(ctx context.Context, id int64, in UpdateItemInput) (Item, error)
	Delete(ctx context.Context, id int64) error
}

// Handler HTTP para items.
// Solo traduce HTTP <-> dominio (service).
type Handler struct {
	service ServiceAPI
	log     *zap.Logger
}

// NewHandler crea un handler de items.
func NewHandler(service ServiceAPI, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// Create maneja POST /items.
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	itemInput, err := DecodeCreate(limitBody(writer, request))
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	item, err := handler.service.Create(request.Context(), itemInput)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	httpx.OK(writer, http.StatusCreated, item)
}

// List maneja GET /items.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	items, err := handler.service.List(request.Context())
	if err != nil {
		handler.fail(writer, request, err)
		return
	}
	if items == nil {
		items = []Item{}
	}

	httpx.OK(writer, http.StatusOK, items)
}

// GetByID maneja GET /items/{item_id}.
func (handler *Handler) GetByID(writer http.ResponseWriter, request *http.Request) {
	id, err := ParseItemID(request)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	item, err := handler.service.Get(request.Context(), id)
	if err != nil {
		handler.failLookup(writer, request, err, messageGetNotFound)
		return
	}

	httpx.OK(writer, http.StatusOK, item)
}

// Update maneja PUT /items/{item_id} con semántica de update parcial.
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	id, err := ParseItemID(request)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	itemInputUpdated, err := DecodeUpdate(limitBody(writer, request))
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	item, err := handler.service.Update(request.Context(), id, itemInputUpdated)
	if err != nil {
		handler.failLookup(writer, request, err, messageNotFound)
		return
	}

	httpx.OK(writer, http.StatusOK, item)
}

// Delete maneja DELETE /items/{item_id}.
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	id, err := ParseItemID(request)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		handler.failLookup(writer, request, err, messageNotFound)
		return
	}

	// 204 No Content: respuesta vacía.
	httpx.NoContent(writer)
}

// limitBody corta los bodies más grandes que maxBodyBytes; la lectura
// devuelve *http.MaxBytesError y fail lo responde como 413.
func limitBody(writer http.ResponseWriter, request *http.Request) io.Reader {
	return http.MaxBytesReader(writer, request.Body, maxBodyBytes)
}

// failLookup es fail para operaciones sobre un id: ErrorNotFound sale
// como 404 con el mensaje de la ruta.
func (handler *Handler) failLookup(writer http.ResponseWriter, request *http.Request, err error, notFoundMessage string) {
	if errors.Is(err, ErrorNotFound) {
		httpx.Fail(writer, http.StatusNotFound, notFoundMessage)
		return
	}
	handler.fail(writer, request, err)
}

// fail traduce errores de validación y de store a respuestas HTTP.
// Los errores de store no se exponen: se loguean y salen como 500.
func (handler *Handler) fail(writer http.ResponseWriter, request *http.Request, err error) {
	var (
		validationError *ValidationError
		maxBytesError   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &validationError):
		httpx.Invalid(writer, validationError.Fields)
	case errors.As(err, &maxBytesError):
		httpx.Fail(writer, http.StatusRequestEntityTooLarge, "Request body too large")
	default:
		handler.log.Error("item request failed",
			zap.String("method", request.Method),
			zap.String("path", request.URL.Path),
			zap.String("request_id", httpx.RequestIDFrom(request)),
			zap.Error(err),
		)
		httpx.Internal(writer)
	}
}
