package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tradebridge/tradebridge-backend/internal/pkg/apperr"
)

// Body is the envelope every endpoint answers with.
type Body struct {
	StatusCode int         `json:"statusCode"`
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Error      *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Body{
		StatusCode: http.StatusOK,
		Success:    true,
		Message:    message,
		Data:       data,
	})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Body{
		StatusCode: http.StatusCreated,
		Success:    true,
		Message:    message,
		Data:       data,
	})
}

// Fail maps the error chain onto the envelope. Unclassified errors are
// reported as internal without leaking their text.
func Fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"
	message := "internal server error"
	if ae, ok := apperr.As(err); ok {
		status = ae.HTTPStatus()
		code = ae.Code
		message = ae.Error()
	}
	c.AbortWithStatusJSON(status, Body{
		StatusCode: status,
		Success:    false,
		Message:    message,
		Error:      &ErrorBody{Code: code, Message: message},
	})
}

// FailValidation shortcuts malformed-request errors raised in handlers.
func FailValidation(c *gin.Context, code, message string) {
	Fail(c, apperr.Validation(code, "%s", message))
}
