package system

import (
	stdlog "log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReqLoggerKey is the gin context key for the request-scoped logger.
const ReqLoggerKey = "reqLogger"

// RequestLogger returns middleware that stores a request-scoped sugared
// logger under ReqLoggerKey, annotated with a request id and the request
// line. Handlers retrieve it via GetReqLogger.
func RequestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ReqLoggerKey, log.With(
			"requestId", uuid.NewString(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		))
		c.Next()
	}
}

// SetupLogger builds the process logger: human-readable in development,
// JSON in production.
func SetupLogger(debug bool) *zap.SugaredLogger {
	var zlog *zap.Logger
	var err error
	if debug {
		zlog, err = zap.NewDevelopment()
	} else {
		zlog, err = zap.NewProduction()
	}
	if err != nil {
		stdlog.Fatalf("failed to set up logger: %v", err)
	}
	return zlog.Sugar()
}

// GetReqLogger returns the request-scoped sugared logger from gin.Context if
// present, otherwise the fallback.
func GetReqLogger(c *gin.Context, fallback *zap.SugaredLogger) *zap.SugaredLogger {
	if c == nil {
		return fallback
	}
	if v, ok := c.Get(ReqLoggerKey); ok {
		if l, ok2 := v.(*zap.SugaredLogger); ok2 {
			return l
		}
	}
	return fallback
}
