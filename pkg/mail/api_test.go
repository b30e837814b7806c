package mail

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/omondijeff/pension-pilot-mail-service/pkg/system"
)

func newTestAPI(t *testing.T, dialer *fakeDialer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testMailConfig()
	log := zaptest.NewLogger(t).Sugar()
	manager := NewManager(cfg, log).WithDialFunc(dialer.dial)
	gateway := NewGateway(manager, cfg, log)
	controller := NewAPIController(gateway, manager, log)

	engine := gin.New()
	require.NoError(t, controller.Register(engine.Group(controller.BasePath())))
	return engine
}

func postJSON(engine *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAPIController_SendSuccess(t *testing.T) {
	engine := newTestAPI(t, &fakeDialer{})

	w := postJSON(engine, "/send", `{"to":"a@b.com","subject":"Hi","body":"Hello"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.NotEmpty(t, resp["messageId"])
}

func TestAPIController_SendErrors(t *testing.T) {
	tests := []struct {
		name        string
		dialer      *fakeDialer
		body        string
		wantCode    int
		wantInError string
	}{
		{
			name:        "Missing fields",
			dialer:      &fakeDialer{},
			body:        `{"to":"a@b.com"}`,
			wantCode:    http.StatusBadRequest,
			wantInError: "missing required fields",
		},
		{
			name:        "Malformed address",
			dialer:      &fakeDialer{},
			body:        `{"to":"not-an-email","subject":"Hi","body":"Hello"}`,
			wantCode:    http.StatusBadRequest,
			wantInError: "invalid recipient address",
		},
		{
			name:        "Invalid JSON",
			dialer:      &fakeDialer{},
			body:        `{"to":`,
			wantCode:    http.StatusBadRequest,
			wantInError: "invalid request body",
		},
		{
			name:        "No transport available",
			dialer:      &fakeDialer{failures: 100},
			body:        `{"to":"a@b.com","subject":"Hi","body":"Hello"}`,
			wantCode:    http.StatusServiceUnavailable,
			wantInError: "mail transport unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestAPI(t, tt.dialer)

			w := postJSON(engine, "/send", tt.body)

			assert.Equal(t, tt.wantCode, w.Code)
			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, false, resp["success"])
			assert.Contains(t, resp["error"], tt.wantInError)
		})
	}
}

func TestAPIController_SendUpstreamRejection(t *testing.T) {
	dialer := &fakeDialer{transport: &fakeTransport{sendErr: assertableErr("550 relay rejected")}}
	engine := newTestAPI(t, dialer)

	w := postJSON(engine, "/send", `{"to":"a@b.com","subject":"Hi","body":"Hello"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "550 relay rejected")
}

func TestAPIController_TestEmail(t *testing.T) {
	dialer := &fakeDialer{}
	engine := newTestAPI(t, dialer)

	w := postJSON(engine, "/test-email", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, dialer.transport.(*fakeTransport).sentCount())
}

func TestAPIController_Status(t *testing.T) {
	engine := newTestAPI(t, &fakeDialer{failures: 100})

	// trip one failed lazy attempt so there is state to report
	postJSON(engine, "/send", `{"to":"a@b.com","subject":"Hi","body":"Hello"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var snap Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, StatusFailed, snap.CurrentStatus)
	assert.True(t, snap.PasswordSet)
	assert.Equal(t, 1, snap.ReconnectAttempts)
	assert.Equal(t, "smtp.example.com", snap.Host)
}

func TestAPIController_AliasRoutes(t *testing.T) {
	engine := newTestAPI(t, &fakeDialer{})

	w := postJSON(engine, "/api/send", `{"to":"a@b.com","subject":"Hi","body":"Hello"}`)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIController_UsesRequestScopedLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zap.DebugLevel)
	reqLog := zap.New(core).Sugar().With("requestId", "req-1")

	cfg := testMailConfig()
	log := zaptest.NewLogger(t).Sugar()
	manager := NewManager(cfg, log).WithDialFunc((&fakeDialer{}).dial)
	controller := NewAPIController(NewGateway(manager, cfg, log), manager, log)

	engine := gin.New()
	engine.Use(func(c *gin.Context) { c.Set(system.ReqLoggerKey, reqLog) })
	require.NoError(t, controller.Register(engine.Group(controller.BasePath())))

	postJSON(engine, "/send", `{"to":`)

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "Rejected unparseable send request")
	assert.Equal(t, "req-1", entries[0].ContextMap()["requestId"])
}

type assertableErr string

func (e assertableErr) Error() string { return string(e) }
