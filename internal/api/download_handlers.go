package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikanbox/pan115-gateway/internal/gateway"
	"github.com/mikanbox/pan115-gateway/internal/submit"
)

type submitDownloadRequest struct {
	CredentialID uint     `json:"credential_id"`
	URLs         []string `json:"urls"`
	SaveDirID    string   `json:"save_dir_id"`
	UserID       string   `json:"user_id"`
}

// SubmitDownloadHandler 用存储的凭证提交一批磁力链接
func (h *Handlers) SubmitDownloadHandler(c *gin.Context) {
	var req submitDownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.submitter.Submit(c.Request.Context(), req.CredentialID, req.URLs, req.SaveDirID, req.UserID)
	if err != nil {
		submitError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// submitError 校验错误 400，凭证缺失 404，越权 403，远端失败 502
func submitError(c *gin.Context, err error) {
	var invalidURLs *submit.InvalidURLFormatError
	var submitErr *gateway.SubmitError

	switch {
	case errors.Is(err, submit.ErrMissingCredential),
		errors.Is(err, submit.ErrMissingUrls),
		errors.Is(err, submit.ErrTooManyUrls),
		errors.As(err, &invalidURLs):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, submit.ErrCredentialNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, submit.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.As(err, &submitErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":           submitErr.Body,
			"upstream_status": submitErr.StatusCode,
		})
	case errors.Is(err, gateway.ErrRemoteUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		log.Printf("submit failed: %v", err)
		upstreamError(c, err)
	}
}
