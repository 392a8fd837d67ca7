package ginutil

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// QueryInt extracts an integer from query parameters with default value
func QueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// ParamUint64 extracts an unsigned id from path parameters
func ParamUint64(c *gin.Context, key string) (uint64, error) {
	valueStr := c.Param(key)
	return strconv.ParseUint(valueStr, 10, 64)
}
