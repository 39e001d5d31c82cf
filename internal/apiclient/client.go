package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Lelo88/request-admin/internal/httpx"
)

// maxErrorBody limita cuánto se lee de una respuesta de error que no es JSON.
const maxErrorBody = 4 << 10

// APIError es la falla devuelta por el backend (status no 2xx).
// Error() devuelve el mensaje legible que el panel muestra tal cual.
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

func (err *APIError) Error() string {
	if err.Message != "" {
		return err.Message
	}
	return fmt.Sprintf("request failed with status %d", err.Status)
}

// Client es el transporte JSON genérico contra la API de pedidos.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// Option configura el Client.
type Option func(*Client)

// WithHTTPClient reemplaza el *http.Client (timeouts, transport de tests).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) {
		client.httpClient = httpClient
	}
}

// WithLogger agrega logs de depuración por llamada.
func WithLogger(log *zap.Logger) Option {
	return func(client *Client) {
		client.log = log
	}
}

// New crea un cliente apuntando a baseURL (sin barra final).
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Get hace GET path?params y decodifica data en out (si out no es nil).
func (client *Client) Get(ctx context.Context, path string, params url.Values, out any) error {
	target := path
	if encoded := params.Encode(); encoded != "" {
		target += "?" + encoded
	}
	return client.do(ctx, http.MethodGet, target, nil, out)
}

// Post envía body como JSON y decodifica data en out.
func (client *Client) Post(ctx context.Context, path string, body any, out any) error {
	return client.do(ctx, http.MethodPost, path, body, out)
}

// Delete hace DELETE path. No espera payload.
func (client *Client) Delete(ctx context.Context, path string) error {
	return client.do(ctx, http.MethodDelete, path, nil, nil)
}

func (client *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set(httpx.RequestIDHeader, requestID)
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := client.httpClient.Do(httpReq)
	if err != nil {
		client.log.Warn("api call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	client.log.Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", requestID),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return readAPIError(resp, requestID)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var envelope httpx.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	if len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s data: %w", method, path, err)
	}
	return nil
}

// readAPIError arma el APIError a partir del sobre de error; si el cuerpo no es
// el sobre esperado usa el texto crudo como mensaje.
func readAPIError(resp *http.Response, requestID string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	apiErr := &APIError{Status: resp.StatusCode, RequestID: requestID}

	var envelope httpx.Envelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		if envelope.Meta != nil && envelope.Meta.RequestID != "" {
			apiErr.RequestID = envelope.Meta.RequestID
		}
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(raw))
	return apiErr
}
