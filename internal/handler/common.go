package handler

import (
	"errors"
	"net/http"

	"research-assist/internal/service"

	"github.com/gin-gonic/gin"
)

// 认证在网关层完成，这里只取已解析的用户标识；
// 单租户部署不带header时落到default
const defaultOwnerID = "default"

func ownerID(c *gin.Context) string {
	if id := c.GetHeader("X-User-ID"); id != "" {
		return id
	}
	return defaultOwnerID
}

// respondError 把领域错误映射到HTTP状态码
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
