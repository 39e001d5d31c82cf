package requests

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Lelo88/request-admin/internal/httpx"
	"github.com/Lelo88/request-admin/internal/model"
)

// ServiceAPI define lo que el handler necesita.
type ServiceAPI interface {
	List(ctx context.Context, page, limit int, query string) ([]model.Request, int, error)
	Save(ctx context.Context, request model.Request) (model.Request, bool, error)
	Delete(ctx context.Context, id int64) error
}

// Handler traduce HTTP <-> service para el recurso /request.
type Handler struct {
	service ServiceAPI
	log     *zap.Logger
}

// NewHandler crea un handler de pedidos. log puede ser nil.
func NewHandler(service ServiceAPI, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: service, log: log}
}

// List maneja GET /request con paginación y búsqueda por nombre.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	page, limit, err := parsePagination(request)
	if err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_pagination", "invalid pagination parameters")
		return
	}

	query := strings.TrimSpace(request.URL.Query().Get("query"))

	items, total, err := handler.service.List(request.Context(), page, limit, query)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	httpx.OK(writer, request, http.StatusOK, model.PaginationResponse{
		Items: items,
		Pagination: model.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	})
}

// Save maneja POST /request. Sin id crea (201); con id actualiza (200).
func (handler *Handler) Save(writer http.ResponseWriter, request *http.Request) {
	var input model.Request
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_json", "invalid JSON body")
		return
	}

	saved, created, err := handler.service.Save(request.Context(), input)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httpx.OK(writer, request, status, saved)
}

// Delete maneja DELETE /request/{id}.
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(request, "id"), 10, 64)
	if err != nil || id < 1 {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		handler.fail(writer, request, err)
		return
	}

	// 204 No Content: respuesta vacía.
	writer.WriteHeader(http.StatusNoContent)
}

// fail traduce errores de dominio. Los inesperados se loguean y no se filtran al cliente.
func (handler *Handler) fail(writer http.ResponseWriter, request *http.Request, err error) {
	var invalidFields *InvalidFieldsError
	switch {
	case errors.As(err, &invalidFields):
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_input", invalidFields.Error())
	case errors.Is(err, ErrorInvalidInput):
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_input", "invalid input data")
	case errors.Is(err, ErrorNotFound):
		httpx.Fail(writer, request, http.StatusNotFound, "not_found", "request not found")
	default:
		handler.log.Error("request handler failed",
			zap.String("method", request.Method),
			zap.String("path", request.URL.Path),
			zap.String("request_id", httpx.RequestIDFrom(request)),
			zap.Error(err),
		)
		httpx.Fail(writer, request, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}

// parsePagination parsea page y limit con defaults y límites razonables.
func parsePagination(request *http.Request) (int, int, error) {
	const (
		defaultPage  = 1
		defaultLimit = 20
		maxLimit     = 100
	)

	query := request.URL.Query()

	page := defaultPage
	limit := defaultLimit

	if value := strings.TrimSpace(query.Get("page")); value != "" {
		pageNumber, err := strconv.Atoi(value)
		if err != nil {
			return 0, 0, err
		}
		if pageNumber < 1 {
			return 0, 0, ErrorInvalidInput
		}
		page = pageNumber
	}

	if value := strings.TrimSpace(query.Get("limit")); value != "" {
		limitNumber, err := strconv.Atoi(value)
		if err != nil {
			return 0, 0, err
		}
		if limitNumber < 1 {
			return 0, 0, ErrorInvalidInput
		}
		limit = min(limitNumber, maxLimit)
	}

	if page-1 > math.MaxInt/limit {
		return 0, 0, ErrorInvalidInput
	}

	return page, limit, nil
}
