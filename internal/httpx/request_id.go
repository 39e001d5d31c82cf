package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestIDHeader es el header con el que el cliente de administración
// correlaciona sus llamadas con el log del servidor.
const RequestIDHeader = "X-Request-Id"

// RequestIDFrom devuelve el request id de la llamada.
// Prioriza el que generó (o aceptó) el middleware de chi y cae al header crudo.
func RequestIDFrom(request *http.Request) string {
	if request == nil {
		return ""
	}
	if id := middleware.GetReqID(request.Context()); id != "" {
		return id
	}
	return request.Header.Get(RequestIDHeader)
}
