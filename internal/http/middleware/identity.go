package middleware

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/seekstruth-backend/internal/http/response"
	"github.com/yungbote/seekstruth-backend/internal/platform/apierr"
	"github.com/yungbote/seekstruth-backend/internal/platform/authtoken"
	"github.com/yungbote/seekstruth-backend/internal/platform/ctxutil"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

const (
	HeaderUserID    = "X-User-Id"
	AnonymousUserID = "anonymous"
)

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:@-]{1,128}$`)

type IdentityMiddleware struct {
	log      *logger.Logger
	signer   *authtoken.Signer
	required bool
}

// NewIdentityMiddleware verifies bearer tokens with signer. When required is
// false, callers without a token are identified by the X-User-Id header or fall
// back to the shared anonymous id.
func NewIdentityMiddleware(log *logger.Logger, signer *authtoken.Signer, required bool) *IdentityMiddleware {
	return &IdentityMiddleware{log: log.With("middleware", "IdentityMiddleware"), signer: signer, required: required}
}

func (m *IdentityMiddleware) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		rd, err := m.resolve(c)
		if err != nil {
			c.Abort()
			response.RespondAPIError(c, "unauthorized", err)
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), rd))
		c.Next()
	}
}

var errBadToken = apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token"))

func (m *IdentityMiddleware) resolve(c *gin.Context) (*ctxutil.RequestData, error) {
	if tok := extractToken(c); tok != "" {
		if m.signer == nil {
			return nil, apierr.New(http.StatusUnauthorized, "unauthorized", authtoken.ErrNoSecret)
		}
		sub, err := m.signer.Subject(tok)
		if err != nil {
			m.log.Debug("Rejected bearer token", "error", err)
			return nil, errBadToken
		}
		return &ctxutil.RequestData{UserID: sub}, nil
	}
	if m.required {
		return nil, errBadToken
	}
	if id := strings.TrimSpace(c.GetHeader(HeaderUserID)); id != "" {
		if !userIDPattern.MatchString(id) {
			return nil, apierr.BadRequest("invalid_user_id", errors.New("invalid "+HeaderUserID+" header"))
		}
		return &ctxutil.RequestData{UserID: id}, nil
	}
	return &ctxutil.RequestData{UserID: AnonymousUserID, Anonymous: true}, nil
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
