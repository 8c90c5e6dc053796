package gin

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/FabienMht/ginslog/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/momeni/flightagg/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/flightagg/pkg/core/log"
)

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

// RequestIDHeader is the header which carries the request identifier.
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLen = 128

func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.HandleMethodNotAllowed = true
	e.ContextWithFallback = true
	e.Use(middlewares...)
	return e
}

func Logger(l *slog.Logger) HandlerFunc {
	return logger.New(l)
}

// Recovery converts panics of the next handlers to a 500 problem
// response, logging the recovered value with its request identifier.
func Recovery() HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, r any) {
		log.Error(c.Request.Context(), "handler panicked",
			slog.Any("panic", r),
			slog.String("path", c.Request.URL.Path),
		)
		serdser.Abort(c, serdser.NewProblem(
			http.StatusInternalServerError, "An unexpected error occurred",
		))
	})
}

// RequestID takes the request identifier from the X-Request-ID header,
// or generates a random one, and stores it in the request context and
// the response header.
func RequestID() HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(
			log.WithRequestID(c.Request.Context(), id),
		)
		c.Next()
	}
}
