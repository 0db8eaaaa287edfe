package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/seekstruth-backend/internal/platform/apierr"
)

type APIError struct {
	Message  string `json:"message"`
	Code     string `json:"code,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError renders err using its *apierr.Error status, code and redirect
// hint, or a 500 with fallbackCode for anything else.
func RespondAPIError(c *gin.Context, fallbackCode string, err error) {
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		RespondError(c, http.StatusInternalServerError, fallbackCode, err)
		return
	}
	msg := ae.Error()
	c.JSON(ae.Status, ErrorEnvelope{
		Error: APIError{
			Message:  msg,
			Code:     ae.Code,
			Redirect: ae.Redirect,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
