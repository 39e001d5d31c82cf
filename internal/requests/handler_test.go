package requests_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/Lelo88/request-admin/internal/httpx"
	"github.com/Lelo88/request-admin/internal/model"
	"github.com/Lelo88/request-admin/internal/requests"
)

type stubService struct {
	listFn   func(ctx context.Context, page, limit int, query string) ([]model.Request, int, error)
	saveFn   func(ctx context.Context, request model.Request) (model.Request, bool, error)
	deleteFn func(ctx context.Context, id int64) error

	listCalled bool
	listPage   int
	listLimit  int
	listQuery  string

	saveCalled bool
	saveInput  model.Request

	deleteCalled bool
	deleteID     int64
}

func (service *stubService) List(ctx context.Context, page, limit int, query string) ([]model.Request, int, error) {
	service.listCalled = true
	service.listPage = page
	service.listLimit = limit
	service.listQuery = query
	if service.listFn != nil {
		return service.listFn(ctx, page, limit, query)
	}
	return []model.Request{}, 0, nil
}

func (service *stubService) Save(ctx context.Context, request model.Request) (model.Request, bool, error) {
	service.saveCalled = true
	service.saveInput = request
	if service.saveFn != nil {
		return service.saveFn(ctx, request)
	}
	return request, request.IsNew(), nil
}

func (service *stubService) Delete(ctx context.Context, id int64) error {
	service.deleteCalled = true
	service.deleteID = id
	if service.deleteFn != nil {
		return service.deleteFn(ctx, id)
	}
	return nil
}

func idPtr(value int64) *int64 {
	return &value
}

func TestHandler_Save(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		service := &stubService{}
		handler := requests.NewHandler(service, nil)

		rec := httptest.NewRecorder()
		handler.Save(rec, httptest.NewRequest(http.MethodPost, "/request", strings.NewReader("{")))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "invalid_json", decodeResponse(t, rec).Error.Code)
		require.False(t, service.saveCalled)
	})

	t.Run("create returns 201 with canonical record", func(t *testing.T) {
		service := &stubService{
			saveFn: func(ctx context.Context, request model.Request) (model.Request, bool, error) {
				request.ID = idPtr(1)
				return request, true, nil
			},
		}
		handler := requests.NewHandler(service, nil)

		rec := httptest.NewRecorder()
		body := `{"name":"Paper","type":"Office","amount":10}`
		handler.Save(rec, httptest.NewRequest(http.MethodPost, "/request", strings.NewReader(body)))

		require.Equal(t, http.StatusCreated, rec.Code)
		require.Nil(t, service.saveInput.ID)
		require.Equal(t, "Paper", service.saveInput.Name)

		resp := decodeResponse(t, rec)
		require.JSONEq(t, `{"id":1,"name":"Paper","type":"Office","amount":10}`, string(resp.Data))
	})

	t.Run("update returns 200", func(t *testing.T) {
		service := &stubService{}
		handler := requests.NewHandler(service, nil)

		rec := httptest.NewRecorder()
		body := `{"id":42,"name":"Widget","amount":3}`
		handler.Save(rec, httptest.NewRequest(http.MethodPost, "/request", strings.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, int64(42), *service.saveInput.ID)
	})

	t.Run("domain errors", func(t *testing.T) {
		tests := []struct {
			name       string
			err        error
			wantStatus int
			wantCode   string
			wantMsg    string
		}{
			{"invalid fields", &requests.InvalidFieldsError{Fields: []string{"Nome", "Quantidade"}}, http.StatusBadRequest, "invalid_input", "invalid fields: Nome, Quantidade"},
			{"invalid input", requests.ErrorInvalidInput, http.StatusBadRequest, "invalid_input", "invalid input data"},
			{"not found", requests.ErrorNotFound, http.StatusNotFound, "not_found", "request not found"},
			{"internal", errors.New("db down"), http.StatusInternalServerError, "internal_error", "unexpected error"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				service := &stubService{
					saveFn: func(ctx context.Context, request model.Request) (model.Request, bool, error) {
						return model.Request{}, false, tt.err
					},
				}
				handler := requests.NewHandler(service, nil)

				rec := httptest.NewRecorder()
				handler.Save(rec, httptest.NewRequest(http.MethodPost, "/request", strings.NewReader(`{"name":"x"}`)))

				require.Equal(t, tt.wantStatus, rec.Code)
				resp := decodeResponse(t, rec)
				require.Equal(t, tt.wantCode, resp.Error.Code)
				require.Equal(t, tt.wantMsg, resp.Error.Message)
			})
		}
	})
}

func TestHandler_List(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		service := &stubService{}
		handler := requests.NewHandler(service, nil)

		rec := httptest.NewRecorder()
		handler.List(rec, httptest.NewRequest(http.MethodGet, "/request", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 1, service.listPage)
		require.Equal(t, 20, service.listLimit)
		require.Equal(t, "", service.listQuery)

		var page model.PaginationResponse
		require.NoError(t, json.Unmarshal(decodeResponse(t, rec).Data, &page))
		require.Empty(t, page.Items)
		require.Equal(t, model.Pagination{Page: 1, Limit: 20, Total: 0}, page.Pagination)
	})

	t.Run("custom params and limit cap", func(t *testing.T) {
		service := &stubService{
			listFn: func(ctx context.Context, page, limit int, query string) ([]model.Request, int, error) {
				return []model.Request{{ID: idPtr(3), Name: "Paper", Amount: 1}}, 301, nil
			},
		}
		handler := requests.NewHandler(service, nil)

		rec := httptest.NewRecorder()
		handler.List(rec, httptest.NewRequest(http.MethodGet, "/request?page=3&limit=500&query=%20pap%20", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 3, service.listPage)
		require.Equal(t, 100, service.listLimit)
		require.Equal(t, "pap", service.listQuery)

		var page model.PaginationResponse
		require.NoError(t, json.Unmarshal(decodeResponse(t, rec).Data, &page))
		require.Len(t, page.Items, 1)
		require.Equal(t, 301, page.Pagination.Total)
	})

	t.Run("invalid pagination", func(t *testing.T) {
		for _, target := range []string{"/request?page=abc", "/request?page=0", "/request?limit=-1", "/request?limit=x", "/request?page=9223372036854775807&limit=100"} {
			service := &stubService{}
			handler := requests.NewHandler(service, nil)

			rec := httptest.NewRecorder()
			handler.List(rec, httptest.NewRequest(http.MethodGet, target, nil))

			require.Equal(t, http.StatusBadRequest, rec.Code, target)
			require.Equal(t, "invalid_pagination", decodeResponse(t, rec).Error.Code, target)
			require.False(t, service.listCalled, target)
		}
	})

	t.Run("service error", func(t *testing.T) {
		service := &stubService{
			listFn: func(ctx context.Context, page, limit int, query string) ([]model.Request, int, error) {
				return nil, 0, errors.New("db down")
			},
		}
		handler := requests.NewHandler(service, nil)

		rec := httptest.NewRecorder()
		handler.List(rec, httptest.NewRequest(http.MethodGet, "/request", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHandler_Delete(t *testing.T) {
	newRequest := func(id string) *http.Request {
		req := httptest.NewRequest(http.MethodDelete, "/request/"+id, nil)
		routeContext := chi.NewRouteContext()
		routeContext.URLParams.Add("id", id)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeContext))
	}

	t.Run("invalid id", func(t *testing.T) {
		for _, id := range []string{"abc", "0", "-3"} {
			service := &stubService{}
			handler := requests.NewHandler(service, nil)

			rec := httptest.NewRecorder()
			handler.Delete(rec, newRequest(id))

			require.Equal(t, http.StatusBadRequest, rec.Code, id)
			require.Equal(t, "invalid_id", decodeResponse(t, rec).Error.Code)
			require.False(t, service.deleteCalled)
		}
	})

	t.Run("not found", func(t *testing.T) {
		service := &stubService{
			deleteFn: func(ctx context.Context, id int64) error { return requests.ErrorNotFound },
		}
		handler := requests.NewHandler(service, nil)

		rec := httptest.NewRecorder()
		handler.Delete(rec, newRequest("8"))

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("no content", func(t *testing.T) {
		service := &stubService{}
		handler := requests.NewHandler(service, nil)

		rec := httptest.NewRecorder()
		handler.Delete(rec, newRequest("8"))

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Empty(t, rec.Body.String())
		require.Equal(t, int64(8), service.deleteID)
	})
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) httpx.Envelope {
	t.Helper()

	var envelope httpx.Envelope
	require.NoError(t, json.NewDecoder(bytes.NewReader(recorder.Body.Bytes())).Decode(&envelope))
	return envelope
}
