package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikanbox/pan115-gateway/internal/gateway"
	"github.com/mikanbox/pan115-gateway/internal/submit"
)

// AddTasksHandler 网关面的离线任务入口，请求体直接携带四个凭证值
// URL 校验规则与 /downloads 一致
func (h *Handlers) AddTasksHandler(c *gin.Context) {
	var req gateway.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	t := req.Credentials
	if t.UID == "" || t.CID == "" || t.SEID == "" || t.KID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "all credential fields are required"})
		return
	}

	urls, err := submit.FilterURLs(req.URLs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.drive.AddTasks(c.Request.Context(), t, urls, req.SaveDirID)
	if err != nil {
		log.Printf("add tasks failed: %v", err)
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
