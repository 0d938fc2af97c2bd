package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikanbox/pan115-gateway/internal/drive115"
)

// StartQRCodeHandler 发起扫码会话，返回 uid/sign/time/qrcodeContent 四元组
func (h *Handlers) StartQRCodeHandler(c *gin.Context) {
	session, err := h.drive.QRCodeStart(c.Request.Context())
	if err != nil {
		log.Printf("qrcode start failed: %v", err)
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

type qrImageRequest struct {
	UID string `json:"uid"`
}

// QRCodeImageHandler 透传二维码图片
func (h *Handlers) QRCodeImageHandler(c *gin.Context) {
	var req qrImageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uid is required"})
		return
	}

	data, err := h.drive.QRCodeImage(c.Request.Context(), req.UID)
	if err != nil {
		log.Printf("qrcode image failed: %v", err)
		upstreamError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

type qrStatusRequest struct {
	UID  string `json:"uid"`
	Time int64  `json:"time"`
	Sign string `json:"sign"`
}

// QRCodeStatusHandler 查询一次扫码状态
func (h *Handlers) QRCodeStatusHandler(c *gin.Context) {
	var req qrStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uid, time and sign are required"})
		return
	}

	status, err := h.drive.QRCodeStatus(c.Request.Context(), req.UID, req.Time, req.Sign)
	if err != nil {
		log.Printf("qrcode status failed: %v", err)
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

type qrLoginRequest struct {
	UID  string `json:"uid"`
	Sign string `json:"sign"`
	Time int64  `json:"time"`
}

// QRCodeLoginHandler 确认后换取凭证
// 远端拒绝时仍返回 200，由响应里的 success 字段区分，前端据此提示
func (h *Handlers) QRCodeLoginHandler(c *gin.Context) {
	var req qrLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uid, sign and time are required"})
		return
	}

	result, err := h.drive.QRCodeLogin(c.Request.Context(), req.UID)
	if err != nil {
		log.Printf("qrcode login failed: %v", err)
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// upstreamError 上游失败统一映射成 502，保留上游状态码和响应体
func upstreamError(c *gin.Context, err error) {
	var ue *drive115.UpstreamError
	if errors.As(err, &ue) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":           ue.Body,
			"upstream_status": ue.StatusCode,
		})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}
