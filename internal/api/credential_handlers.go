package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mikanbox/pan115-gateway/internal/cookie"
	"github.com/mikanbox/pan115-gateway/internal/store"
)

// ListCredentialsHandler 按用户列出凭证，最新的在前
func (h *Handlers) ListCredentialsHandler(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	creds, err := h.creds.ListForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, creds)
}

type createCredentialRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	UID    string `json:"uid"`
	CID    string `json:"cid"`
	SEID   string `json:"seid"`
	KID    string `json:"kid"`
}

func (h *Handlers) CreateCredentialHandler(c *gin.Context) {
	var req createCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.UserID == "" || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and name are required"})
		return
	}

	cred, err := h.creds.Create(req.UserID, req.Name, req.UID, req.CID, req.SEID, req.KID)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cred)
}

func (h *Handlers) GetCredentialHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	cred, err := h.creds.Get(id)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cred)
}

func (h *Handlers) UpdateCredentialHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var fields store.UpdateFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cred, err := h.creds.Update(id, fields)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cred)
}

func (h *Handlers) DeleteCredentialHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.creds.Delete(id); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) DeleteAllCredentialsHandler(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	count, err := h.creds.DeleteAllForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted_count": count})
}

func (h *Handlers) CountCredentialsHandler(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	count, err := h.creds.CountForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handlers) LatestCredentialsHandler(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "1"))

	creds, err := h.creds.LatestForUser(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, creds)
}

type fromCookieRequest struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	CookieString string `json:"cookie_string"`
}

// CreateFromCookieHandler 从浏览器 cookie 串导入凭证
func (h *Handlers) CreateFromCookieHandler(c *gin.Context) {
	var req fromCookieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.UserID == "" || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and name are required"})
		return
	}

	cred, err := h.creds.CreateFromCookie(req.UserID, req.Name, req.CookieString)
	if err != nil {
		if errors.Is(err, cookie.ErrIncompleteCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cred)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// storeError 把 store 的错误语义翻译成 HTTP 状态
func storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrDuplicateName):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
