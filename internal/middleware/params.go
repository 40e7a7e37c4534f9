package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Thanhfdq/task-app/internal/errors"
)

const paramKeyPrefix = "param:"

// RequireIDParams checks that each named path parameter is a positive
// integer and stores the parsed value in the context.
func RequireIDParams(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range names {
			id, err := strconv.ParseUint(c.Param(name), 10, 64)
			if err != nil || id == 0 {
				apierrors.BadRequest(c, "Invalid "+name)
				return
			}
			c.Set(paramKeyPrefix+name, id)
		}
		c.Next()
	}
}

// IDParam returns a path parameter parsed by RequireIDParams. It falls
// back to parsing the raw parameter so handlers also work without the
// middleware.
func IDParam(c *gin.Context, name string) (uint64, bool) {
	if v, ok := c.Get(paramKeyPrefix + name); ok {
		if id, ok := v.(uint64); ok {
			return id, true
		}
	}
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
