package middleware

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/seekstruth-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"
)

var correlationIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

// AttachTraceContext gives every request a trace id and a request id. An active
// span wins over the X-Trace-Id header; ids supplied by the caller are only
// echoed back when they look sane.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		t := ctxutil.Trace{
			ID:        spanTraceID(c),
			RequestID: headerID(c, headerRequestID),
		}
		if t.ID == "" {
			t.ID = headerID(c, headerTraceID)
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if t.RequestID == "" {
			t.RequestID = uuid.NewString()
		}
		c.Request = c.Request.WithContext(ctxutil.WithTrace(c.Request.Context(), t))
		c.Header(headerTraceID, t.ID)
		c.Header(headerRequestID, t.RequestID)
		c.Next()
	}
}

func spanTraceID(c *gin.Context) string {
	sc := trace.SpanContextFromContext(c.Request.Context())
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

func headerID(c *gin.Context, name string) string {
	v := strings.TrimSpace(c.GetHeader(name))
	if !correlationIDPattern.MatchString(v) {
		return ""
	}
	return v
}
