// Package handlers implements the HTTP endpoints of the catalog API.
package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"steeldex/pkg/errors"
)

// errorBody is the uniform error envelope.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// respondError maps an error onto its HTTP status and the error envelope.
func respondError(c *gin.Context, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, errorBody{
			Code:    errors.CodeInternal.String(),
			Message: "internal error",
		})
		return
	}
	c.JSON(errors.HTTPStatusForCode(appErr.Code), errorBody{
		Code:    appErr.Code.String(),
		Message: appErr.Message,
		Detail:  appErr.Detail,
	})
}
