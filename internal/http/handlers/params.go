package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tradebridge/tradebridge-backend/internal/http/response"
)

// uintParam parses a numeric path parameter. On failure it writes the
// validation response and returns ok=false.
func uintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		response.FailValidation(c, "invalid_"+name, "path parameter "+name+" must be a positive integer")
		return 0, false
	}
	return uint(v), true
}
