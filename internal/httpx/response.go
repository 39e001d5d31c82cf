package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

// Response es el sobre estándar de la API de pedidos.
// El cliente de administración lo decodifica con Envelope.
type Response struct {
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
	Meta  *Meta      `json:"meta,omitempty"`
}

// Envelope es la versión de lectura del sobre: Data queda cruda para
// decodificarla en el tipo que espera quien llama.
type Envelope struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Error *ErrorBody      `json:"error,omitempty"`
	Meta  *Meta           `json:"meta,omitempty"`
}

// Meta lleva request id y hora del servidor.
type Meta struct {
	RequestID string `json:"request_id,omitempty"`
	TimeUTC   string `json:"time_utc,omitempty"`
}

// ErrorBody describe un error de forma estructurada.
// Message es lo que el panel le muestra al usuario tal cual.
type ErrorBody struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// JSON escribe una respuesta JSON con headers correctos.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)

	if err := enc.Encode(resp); err != nil {
		http.Error(w, `{"error":{"code":"internal","message":"internal server error"}}`, http.StatusInternalServerError)
	}
}

// OK devuelve una respuesta exitosa con data.
func OK(w http.ResponseWriter, r *http.Request, status int, data any) {
	JSON(w, status, Response{
		Data: data,
		Meta: newMeta(r),
	})
}

// Fail devuelve un error estructurado.
func Fail(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	JSON(w, status, Response{
		Error: &ErrorBody{
			Code:    code,
			Message: message,
		},
		Meta: newMeta(r),
	})
}

func newMeta(r *http.Request) *Meta {
	return &Meta{
		RequestID: RequestIDFrom(r),
		TimeUTC:   time.Now().UTC().Format(time.RFC3339),
	}
}
