package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/omondijeff/pension-pilot-mail-service/pkg/config"
	"github.com/omondijeff/pension-pilot-mail-service/pkg/system"
)

func testConfig() config.Config {
	cfg := config.Config{}
	cfg.Defaults()
	cfg.Frontend.AllowedOrigins = []string{"https://app.example.com"}
	return cfg
}

func TestNewServer(t *testing.T) {
	tests := []struct {
		name  string
		debug bool
	}{
		{name: "Debug mode", debug: true},
		{name: "Release mode", debug: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := NewServer(zaptest.NewLogger(t), testConfig(), tt.debug)

			assert.NotNil(t, server)
			assert.NotNil(t, server.Engine())
		})
	}
}

func TestServer_Health(t *testing.T) {
	server := NewServer(zaptest.NewLogger(t), testConfig(), true)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.Engine().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestServer_Metrics(t *testing.T) {
	server := NewServer(zaptest.NewLogger(t), testConfig(), true)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	server.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestServer_CORSAllowList(t *testing.T) {
	server := NewServer(zaptest.NewLogger(t), testConfig(), true)

	tests := []struct {
		name      string
		origin    string
		wantAllow string
	}{
		{
			name:      "Allowed origin",
			origin:    "https://app.example.com",
			wantAllow: "https://app.example.com",
		},
		{
			name:      "Unknown origin",
			origin:    "https://evil.example.net",
			wantAllow: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/health", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			w := httptest.NewRecorder()
			server.Engine().ServeHTTP(w, req)

			assert.Equal(t, tt.wantAllow, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestServer_RequestScopedLogger(t *testing.T) {
	server := NewServer(zaptest.NewLogger(t), testConfig(), true)
	fallback := zaptest.NewLogger(t).Sugar()

	var sawRequestLogger bool
	server.Engine().GET("/logger-check", func(c *gin.Context) {
		sawRequestLogger = system.GetReqLogger(c, fallback) != fallback
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/logger-check", nil)
	server.Engine().ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, sawRequestLogger, "every request must carry a request-scoped logger")
}

type stubController struct {
	registered bool
}

func (s *stubController) BasePath() string            { return "stub" }
func (s *stubController) Handlers() []gin.HandlerFunc { return nil }
func (s *stubController) Register(rg *gin.RouterGroup) error {
	s.registered = true
	rg.GET("ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return nil
}

func TestServer_RegisterAll(t *testing.T) {
	server := NewServer(zaptest.NewLogger(t), testConfig(), true)
	stub := &stubController{}

	require.NoError(t, server.RegisterAll([]APIController{stub}))
	assert.True(t, stub.registered)

	req := httptest.NewRequest(http.MethodGet, "/stub/ping", nil)
	w := httptest.NewRecorder()
	server.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}
