package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Check 存活探针
// @Summary 存活检查
// @Tags 系统
// @Produce plain
// @Success 200 {string} string "Service is up and running!"
// @Router /check [get]
func Check(c *gin.Context) {
	c.String(http.StatusOK, "Service is up and running!")
}

// Status 存活探针，/status、/health 与 / 共用
// @Summary 运行状态
// @Tags 系统
// @Produce plain
// @Success 200 {string} string "Application is running"
// @Router /status [get]
// @Router /health [get]
func Status(c *gin.Context) {
	c.String(http.StatusOK, "Application is running")
}
