package handler

import (
	"net/http"

	"Hive_Community/internal/pkg"

	"github.com/gin-gonic/gin"
)

// respondErr 把领域错误种类映射成HTTP状态码
func respondErr(c *gin.Context, err error) {
	var status int
	switch pkg.KindOf(err) {
	case pkg.KindUnauthenticated:
		status = http.StatusUnauthorized
	case pkg.KindUnauthorized:
		status = http.StatusForbidden
	case pkg.KindNotFound:
		status = http.StatusNotFound
	case pkg.KindConflict:
		status = http.StatusConflict
	case pkg.KindInvalidOperation:
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"msg": err.Error()})
}

func userIDFromCtx(c *gin.Context) uint64 {
	if v, ok := c.Get("user_id"); ok {
		if id, ok2 := v.(uint64); ok2 {
			return id
		}
	}
	return 0
}
