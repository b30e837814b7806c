package status

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/omondijeff/pension-pilot-mail-service/pkg/apiresponses"
	"github.com/omondijeff/pension-pilot-mail-service/pkg/mail"
	"github.com/omondijeff/pension-pilot-mail-service/pkg/version"
)

//go:embed templates/status.html
var statusTemplateRaw string

var statusTemplate = template.Must(template.New("status").Parse(statusTemplateRaw))

// pageData feeds the status page template.
type pageData struct {
	Branding    string
	Status      mail.Status
	StatusClass string
	PasswordSet bool
	LastError   string
	LastChecked string
	Attempts    int
	MaxAttempts int
	Relay       string
	Version     string
}

// Controller serves the HTML status page at the service root.
type Controller struct {
	manager  *mail.Manager
	branding string
	log      *zap.SugaredLogger
}

// NewController creates the status page controller.
func NewController(manager *mail.Manager, branding string, log *zap.SugaredLogger) *Controller {
	return &Controller{
		manager:  manager,
		branding: branding,
		log:      log,
	}
}

func (c *Controller) BasePath() string {
	return ""
}

func (c *Controller) Handlers() []gin.HandlerFunc {
	return nil
}

func (c *Controller) Register(rg *gin.RouterGroup) error {
	rg.GET("", c.handleStatusPage)
	return nil
}

func (c *Controller) handleStatusPage(ctx *gin.Context) {
	snap := c.manager.Snapshot()

	lastChecked := "never"
	if !snap.LastChecked.IsZero() {
		lastChecked = snap.LastChecked.Format(time.RFC1123)
	}

	data := pageData{
		Branding:    c.branding,
		Status:      snap.CurrentStatus,
		StatusClass: statusClass(snap.CurrentStatus),
		PasswordSet: snap.PasswordSet,
		LastError:   snap.LastError,
		LastChecked: lastChecked,
		Attempts:    snap.ReconnectAttempts,
		MaxAttempts: snap.MaxReconnectAttempts,
		Relay:       snap.Host,
		Version:     version.Version,
	}

	var buf bytes.Buffer
	if err := statusTemplate.Execute(&buf, data); err != nil {
		c.log.Errorw("Failed to render status page", "error", err)
		apiresponses.RespondInternalError(ctx, "failed to render status page")
		return
	}

	ctx.Header("X-Frame-Options", "DENY")
	ctx.Header("X-Content-Type-Options", "nosniff")
	ctx.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func statusClass(s mail.Status) string {
	switch s {
	case mail.StatusConnected:
		return "ok"
	case mail.StatusFailed:
		return "failed"
	default:
		return "pending"
	}
}
