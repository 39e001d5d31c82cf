package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Lelo88/request-admin/internal/config"
	"github.com/Lelo88/request-admin/internal/httpx"
)

type fakePool struct {
	pingCalled  bool
	closeCalled bool
	execCalls   int
	execErr     error
}

func (pool *fakePool) Ping(ctx context.Context) error {
	pool.pingCalled = true
	return nil
}

func (pool *fakePool) Close() {
	pool.closeCalled = true
}

func (pool *fakePool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (pool *fakePool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (pool *fakePool) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	pool.execCalls++
	return pgconn.CommandTag{}, pool.execErr
}

func nopLogger(config.LogConfig) (*zap.Logger, error) {
	return zap.NewNop(), nil
}

func TestMain_FatalOnError(t *testing.T) {
	originalLoad := loadConfigFn
	originalNewLogger := newLoggerFn
	originalNewPool := newPoolFn
	originalListen := listenAndServeFn
	originalFatal := fatalf
	defer func() {
		loadConfigFn = originalLoad
		newLoggerFn = originalNewLogger
		newPoolFn = originalNewPool
		listenAndServeFn = originalListen
		fatalf = originalFatal
	}()

	expectedErr := errors.New("config failed")
	loadConfigFn = func() (config.Config, error) {
		return config.Config{}, expectedErr
	}
	newLoggerFn = nopLogger
	newPoolFn = func(ctx context.Context, url string) (appPool, error) {
		return nil, errors.New("should not be called")
	}
	listenAndServeFn = func(addr string, handler http.Handler) error {
		return nil
	}

	fatalCalled := false
	var fatalArg any
	fatalf = func(args ...any) {
		fatalCalled = true
		if len(args) > 0 {
			fatalArg = args[0]
		}
	}

	main()

	require.True(t, fatalCalled)
	require.Equal(t, expectedErr, fatalArg)
}

func TestRun_ConfigError(t *testing.T) {
	deps := appDeps{
		loadConfig: func() (config.Config, error) {
			return config.Config{}, errors.New("load failed")
		},
		newLogger: nopLogger,
		newPool: func(ctx context.Context, url string) (appPool, error) {
			return nil, errors.New("should not be called")
		},
		listenAndServe: func(addr string, handler http.Handler) error {
			return nil
		},
	}

	err := run(context.Background(), deps)

	require.Error(t, err)
}

func TestRun_LoggerError(t *testing.T) {
	deps := appDeps{
		loadConfig: func() (config.Config, error) {
			return config.Config{Port: "8080", DatabaseURL: "postgres://"}, nil
		},
		newLogger: func(config.LogConfig) (*zap.Logger, error) {
			return nil, errors.New("bad log file")
		},
		newPool: func(ctx context.Context, url string) (appPool, error) {
			return nil, errors.New("should not be called")
		},
		listenAndServe: func(addr string, handler http.Handler) error {
			return nil
		},
	}

	err := run(context.Background(), deps)

	require.ErrorContains(t, err, "build logger")
}

func TestRun_NewPoolError(t *testing.T) {
	deps := appDeps{
		loadConfig: func() (config.Config, error) {
			return config.Config{Port: "8080", DatabaseURL: "postgres://"}, nil
		},
		newLogger: nopLogger,
		newPool: func(ctx context.Context, url string) (appPool, error) {
			return nil, errors.New("new pool failed")
		},
		listenAndServe: func(addr string, handler http.Handler) error {
			return nil
		},
	}

	err := run(context.Background(), deps)

	require.Error(t, err)
}

func TestRun_SchemaError(t *testing.T) {
	pool := &fakePool{execErr: errors.New("permission denied")}
	listenCalled := false
	deps := appDeps{
		loadConfig: func() (config.Config, error) {
			return config.Config{Port: "8080", DatabaseURL: "postgres://"}, nil
		},
		newLogger: nopLogger,
		newPool: func(ctx context.Context, url string) (appPool, error) {
			return pool, nil
		},
		listenAndServe: func(addr string, handler http.Handler) error {
			listenCalled = true
			return nil
		},
	}

	err := run(context.Background(), deps)

	require.ErrorContains(t, err, "ensure requests schema")
	require.False(t, listenCalled)
	require.True(t, pool.closeCalled)
}

func TestRun_ListenError(t *testing.T) {
	pool := &fakePool{}
	core, logs := observer.New(zap.InfoLevel)
	deps := appDeps{
		loadConfig: func() (config.Config, error) {
			return config.Config{Port: "9090", DatabaseURL: "postgres://"}, nil
		},
		newLogger: func(config.LogConfig) (*zap.Logger, error) {
			return zap.New(core), nil
		},
		newPool: func(ctx context.Context, url string) (appPool, error) {
			return pool, nil
		},
		listenAndServe: func(addr string, handler http.Handler) error {
			return errors.New("listen failed")
		},
	}

	err := run(context.Background(), deps)

	require.Error(t, err)
	require.True(t, pool.closeCalled)
	entries := logs.FilterMessage("listening").All()
	require.Len(t, entries, 1)
	require.Equal(t, ":9090", entries[0].ContextMap()["addr"])
}

func TestRun_Success(t *testing.T) {
	pool := &fakePool{}
	var gotAddr string
	deps := appDeps{
		loadConfig: func() (config.Config, error) {
			return config.Config{Port: "7070", DatabaseURL: "postgres://"}, nil
		},
		newLogger: nopLogger,
		newPool: func(ctx context.Context, url string) (appPool, error) {
			return pool, nil
		},
		listenAndServe: func(addr string, handler http.Handler) error {
			gotAddr = addr
			require.NotNil(t, handler)
			return nil
		},
	}

	err := run(context.Background(), deps)

	require.NoError(t, err)
	require.Equal(t, ":7070", gotAddr)
	require.Equal(t, 1, pool.execCalls)
	require.True(t, pool.closeCalled)
}

func TestBuildRouter_HealthReady(t *testing.T) {
	pool := &fakePool{}
	router := buildRouter(pool, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data := asMap(t, resp.Data)
	require.Equal(t, "ok", data["status"])

	req = httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeResponse(t, rec)
	data = asMap(t, resp.Data)
	require.Equal(t, "ready", data["status"])
	require.True(t, pool.pingCalled)
}

func TestBuildRouter_RequestRoutesMounted(t *testing.T) {
	router := buildRouter(&fakePool{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/request", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	require.Equal(t, "invalid_json", resp.Error.Code)
	require.NotNil(t, resp.Meta)
	require.NotEmpty(t, resp.Meta.RequestID)

	req = httptest.NewRequest(http.MethodDelete, "/request/abc", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_id", decodeResponse(t, rec).Error.Code)
}

func TestBuildRouter_Docs(t *testing.T) {
	router := buildRouter(&fakePool{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/docs/openapi.yaml", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "/request:")

	req = httptest.NewRequest(http.MethodGet, "/docs", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMovedPermanently, rec.Code)
	require.Equal(t, "/docs/", rec.Header().Get("Location"))
}

func TestBuildRouter_NotFound(t *testing.T) {
	router := buildRouter(&fakePool{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	require.Equal(t, "not_found", resp.Error.Code)
}

func TestBuildRouter_MethodNotAllowed(t *testing.T) {
	router := buildRouter(&fakePool{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	require.Equal(t, "method_not_allowed", resp.Error.Code)
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) httpx.Envelope {
	t.Helper()

	var envelope httpx.Envelope
	require.NoError(t, json.NewDecoder(bytes.NewReader(recorder.Body.Bytes())).Decode(&envelope))
	return envelope
}

func asMap(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}
