package mail

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/omondijeff/pension-pilot-mail-service/pkg/apiresponses"
	"github.com/omondijeff/pension-pilot-mail-service/pkg/system"
)

// APIController exposes the send gateway and connection status over HTTP.
type APIController struct {
	gateway *Gateway
	manager *Manager
	log     *zap.SugaredLogger
}

// NewAPIController creates the mail API controller.
func NewAPIController(gateway *Gateway, manager *Manager, log *zap.SugaredLogger) *APIController {
	return &APIController{
		gateway: gateway,
		manager: manager,
		log:     log,
	}
}

// BasePath returns the root path; send routes live at the top level for
// compatibility with the existing front-end clients.
func (c *APIController) BasePath() string {
	return ""
}

// Handlers returns no extra middleware; the API is an internal tool.
func (c *APIController) Handlers() []gin.HandlerFunc {
	return nil
}

// Register wires the send routes. The unprefixed paths are the historical
// contract; the /api/ aliases exist for the CLI and newer clients.
func (c *APIController) Register(rg *gin.RouterGroup) error {
	rg.POST("send", c.handleSend)
	rg.POST("api/send", c.handleSend)
	rg.POST("test-email", c.handleTestEmail)
	rg.POST("api/test-email", c.handleTestEmail)
	rg.GET("api/status", c.handleStatus)
	return nil
}

func (c *APIController) handleSend(ctx *gin.Context) {
	reqLog := system.GetReqLogger(ctx, c.log)

	var req SendRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		reqLog.Warnw("Rejected unparseable send request", "error", err)
		apiresponses.RespondBadRequest(ctx, "invalid request body: "+err.Error())
		return
	}

	result, err := c.gateway.Send(req)
	if err != nil {
		c.respondSendError(ctx, reqLog, err)
		return
	}
	apiresponses.RespondOK(ctx, result)
}

func (c *APIController) handleTestEmail(ctx *gin.Context) {
	result, err := c.gateway.SendTest()
	if err != nil {
		c.respondSendError(ctx, system.GetReqLogger(ctx, c.log), err)
		return
	}
	apiresponses.RespondOK(ctx, result)
}

func (c *APIController) handleStatus(ctx *gin.Context) {
	apiresponses.RespondOK(ctx, c.manager.Snapshot())
}

// respondSendError maps the gateway error taxonomy to HTTP statuses:
// validation failures are client errors, a missing transport means the
// mail subsystem is down, and anything else is an upstream relay failure.
func (c *APIController) respondSendError(ctx *gin.Context, reqLog *zap.SugaredLogger, err error) {
	switch {
	case errors.Is(err, ErrMissingFields), errors.Is(err, ErrInvalidAddress):
		reqLog.Warnw("Rejected invalid send request", "error", err)
		apiresponses.RespondBadRequest(ctx, err.Error())
	case errors.Is(err, ErrServiceUnavailable), errors.Is(err, ErrMissingSecret):
		reqLog.Warnw("Send refused, mail transport unavailable", "error", err)
		apiresponses.RespondServiceUnavailable(ctx, err.Error())
	default:
		reqLog.Errorw("Upstream relay rejected message", "error", err)
		apiresponses.RespondBadGateway(ctx, err.Error())
	}
}
