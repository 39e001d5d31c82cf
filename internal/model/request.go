package model

import (
	"net/url"
	"strconv"
	"strings"
)

// Request es el pedido administrado por el panel.
// ID ausente significa "nuevo": no existe otro indicador de modo.
type Request struct {
	ID     *int64 `json:"id,omitempty"`
	Name   string `json:"name" validate:"required,min=3,max=50"`
	Type   string `json:"type,omitempty" validate:"omitempty,min=3,max=50"`
	Amount int    `json:"amount" validate:"required,min=1"`
}

// IsNew indica si el registro todavía no fue persistido.
func (request Request) IsNew() bool {
	return request.ID == nil
}

// Clone devuelve una copia sin compartir el puntero del ID.
func (request Request) Clone() Request {
	out := request
	if request.ID != nil {
		id := *request.ID
		out.ID = &id
	}
	return out
}

// PaginationParams son los parámetros de listado que viajan en la query string.
type PaginationParams struct {
	Page  int
	Limit int
	Query string
}

// Values traduce los parámetros a query string. Los valores en cero no se envían
// para que el backend aplique sus defaults.
func (params PaginationParams) Values() url.Values {
	values := url.Values{}
	if params.Page > 0 {
		values.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		values.Set("limit", strconv.Itoa(params.Limit))
	}
	if query := strings.TrimSpace(params.Query); query != "" {
		values.Set("query", query)
	}
	return values
}

// Pagination describe la página devuelta por el backend.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// PaginationResponse es una página de pedidos.
type PaginationResponse struct {
	Items      []Request  `json:"items"`
	Pagination Pagination `json:"pagination"`
}
