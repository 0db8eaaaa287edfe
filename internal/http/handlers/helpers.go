package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/seekstruth-backend/internal/http/response"
	"github.com/yungbote/seekstruth-backend/internal/platform/ctxutil"
)

// requireUserID writes a 401 and returns false when the identity middleware did
// not attach a caller.
func requireUserID(c *gin.Context) (string, bool) {
	uid := ctxutil.UserID(c.Request.Context())
	if uid == "" {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("no user identity"))
		return "", false
	}
	return uid, true
}
