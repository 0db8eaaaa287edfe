package ctxutil

import "context"

type (
	requestDataKey struct{}
	traceKey       struct{}
)

// RequestData identifies the caller of a request. UserID is always set once the
// identity middleware ran; Anonymous marks ids minted for callers without a token.
type RequestData struct {
	UserID    string
	Anonymous bool
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// UserID returns the caller's id or "" when no identity is attached.
func UserID(ctx context.Context) string {
	if rd := GetRequestData(ctx); rd != nil {
		return rd.UserID
	}
	return ""
}

// Trace correlates one request across logs and response headers.
type Trace struct {
	ID        string
	RequestID string
}

func WithTrace(ctx context.Context, t Trace) context.Context {
	return context.WithValue(ctx, traceKey{}, t)
}

func TraceOf(ctx context.Context) (Trace, bool) {
	t, ok := ctx.Value(traceKey{}).(Trace)
	return t, ok
}

// LogFields flattens the trace and caller attached to ctx into logger key/value
// pairs. Empty values are skipped.
func LogFields(ctx context.Context) []any {
	var out []any
	if t, ok := TraceOf(ctx); ok {
		if t.ID != "" {
			out = append(out, "trace_id", t.ID)
		}
		if t.RequestID != "" {
			out = append(out, "request_id", t.RequestID)
		}
	}
	if rd := GetRequestData(ctx); rd != nil && rd.UserID != "" {
		out = append(out, "user_id", rd.UserID)
		if rd.Anonymous {
			out = append(out, "anonymous", true)
		}
	}
	return out
}
