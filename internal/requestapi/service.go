// Package requestapi traduce las operaciones del recurso "request" a llamadas REST.
// Cada llamada se hace una sola vez: sin reintentos ni cache, y los errores
// del transporte se devuelven sin modificar.
package requestapi

import (
	"context"
	"net/url"
	"strconv"

	"github.com/Lelo88/request-admin/internal/model"
)

const resourcePath = "/request"

// Transport es el cliente HTTP genérico que provee el host.
// *apiclient.Client lo implementa.
type Transport interface {
	Get(ctx context.Context, path string, params url.Values, out any) error
	Post(ctx context.Context, path string, body any, out any) error
	Delete(ctx context.Context, path string) error
}

// Service expone list/save/delete del recurso.
type Service struct {
	transport Transport
}

// New crea el service con el transporte inyectado.
func New(transport Transport) *Service {
	return &Service{transport: transport}
}

// List pide una página de pedidos. Una página vacía no es un error.
func (service *Service) List(ctx context.Context, params model.PaginationParams) (model.PaginationResponse, error) {
	var page model.PaginationResponse
	if err := service.transport.Get(ctx, resourcePath, params.Values(), &page); err != nil {
		return model.PaginationResponse{}, err
	}
	if page.Items == nil {
		page.Items = []model.Request{}
	}
	return page, nil
}

// Save envía el registro completo; el backend decide crear o actualizar según el id.
func (service *Service) Save(ctx context.Context, request model.Request) (model.Request, error) {
	var saved model.Request
	if err := service.transport.Post(ctx, resourcePath, request, &saved); err != nil {
		return model.Request{}, err
	}
	return saved, nil
}

// Delete elimina el pedido id.
func (service *Service) Delete(ctx context.Context, id int64) error {
	return service.transport.Delete(ctx, resourcePath+"/"+strconv.FormatInt(id, 10))
}
