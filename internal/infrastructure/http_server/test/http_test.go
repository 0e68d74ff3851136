package httpserver_test

import (
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	configloader "github.com/bionicotaku/lingo-services-captions/internal/infrastructure/configloader"
	httpserver "github.com/bionicotaku/lingo-services-captions/internal/infrastructure/http_server"

	"github.com/bionicotaku/lingo-utils/observability"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/stretchr/testify/require"
)

type pingRoutes struct{}

func (pingRoutes) Register(srv *http.Server) {
	srv.Route("/").POST("/v1/ping", func(ctx http.Context) error {
		return ctx.Result(stdhttp.StatusOK, map[string]string{"status": "success"})
	})
}

func newServer(t *testing.T, ready httpserver.ReadinessCheck) *http.Server {
	t.Helper()
	cfg := configloader.ServerConfig{
		HTTP:         configloader.ListenerConfig{Address: "127.0.0.1:0"},
		MetadataKeys: []string{"x-apigateway-api-userinfo"},
	}
	return httpserver.NewHTTPServer(cfg, &observability.MetricsConfig{Enabled: false}, nil, pingRoutes{}, ready, log.DefaultLogger)
}

func TestHealthz(t *testing.T) {
	srv := newServer(t, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/healthz", nil))
	require.Equal(t, stdhttp.StatusOK, rec.Code)
}

func TestReadyzReportsCheckFailure(t *testing.T) {
	srv := newServer(t, func(*stdhttp.Request) error { return errors.New("db down") })
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/readyz", nil))
	require.Equal(t, stdhttp.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "db down")
}

func TestRegisteredRoutesAreServed(t *testing.T) {
	srv := newServer(t, func(*stdhttp.Request) error { return nil })
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodPost, "/v1/ping", nil))
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "success")
}
