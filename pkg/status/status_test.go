package status

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/omondijeff/pension-pilot-mail-service/pkg/config"
	"github.com/omondijeff/pension-pilot-mail-service/pkg/mail"
)

func statusPage(t *testing.T, manager *mail.Manager) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	controller := NewController(manager, "Pension Pilot", zaptest.NewLogger(t).Sugar())
	engine := gin.New()
	require.NoError(t, controller.Register(engine.Group(controller.BasePath())))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestStatusPage_MissingSecret(t *testing.T) {
	cfg := config.Mail{
		Host:                 "smtp.example.com",
		Port:                 465,
		MaxReconnectAttempts: 5,
	}
	manager := mail.NewManager(cfg, zaptest.NewLogger(t).Sugar()).
		WithDialFunc(func(config.Mail) (mail.Transport, error) {
			return nil, errors.New("should not dial without a secret")
		})
	_ = manager.Initialize(context.Background())

	w := statusPage(t, manager)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Failed")
	assert.Contains(t, body, "passwordSet")
	assert.Contains(t, body, "<td>false</td>")
	assert.Contains(t, body, "smtp.example.com")
}

func TestStatusPage_NotInitialized(t *testing.T) {
	cfg := config.Mail{Host: "smtp.example.com", Port: 465, Password: "secret", MaxReconnectAttempts: 5}
	manager := mail.NewManager(cfg, zaptest.NewLogger(t).Sugar())

	w := statusPage(t, manager)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "NotInitialized")
	assert.Contains(t, body, "never")
	assert.Contains(t, body, "<td>true</td>")
}

func TestStatusPage_SecurityHeaders(t *testing.T) {
	cfg := config.Mail{Host: "smtp.example.com", Port: 465, MaxReconnectAttempts: 5}
	manager := mail.NewManager(cfg, zaptest.NewLogger(t).Sugar())

	w := statusPage(t, manager)

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Strict-Transport-Security"), "max-age=")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}
