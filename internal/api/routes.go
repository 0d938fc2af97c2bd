package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikanbox/pan115-gateway/internal/gateway"
	"github.com/mikanbox/pan115-gateway/internal/model"
	"github.com/mikanbox/pan115-gateway/internal/store"
	"github.com/mikanbox/pan115-gateway/internal/submit"
)

// DriveClient 网关依赖的上游操作，*drive115.Client 满足该接口
type DriveClient interface {
	QRCodeStart(ctx context.Context) (*gateway.QRCodeSession, error)
	QRCodeImage(ctx context.Context, uid string) ([]byte, error)
	QRCodeStatus(ctx context.Context, uid string, t int64, sign string) (*gateway.QRCodeStatus, error)
	QRCodeLogin(ctx context.Context, uid string) (*gateway.LoginResult, error)
	AddTasks(ctx context.Context, tokens model.CredentialTokens, urls []string, saveDirID string) (*gateway.TaskResult, error)
}

// Handlers 持有各路由需要的依赖，启动时装配一次
type Handlers struct {
	drive     DriveClient
	creds     *store.CredentialStore
	submitter *submit.Submitter
}

func NewHandlers(drive DriveClient, creds *store.CredentialStore, submitter *submit.Submitter) *Handlers {
	return &Handlers{
		drive:     drive,
		creds:     creds,
		submitter: submitter,
	}
}

func InitRoutes(r *gin.Engine, h *Handlers) {
	r.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 115 网关面：扫码登录 + 离线任务
	drive := r.Group("/api/v1/115")
	{
		drive.POST("/qrcode/start", h.StartQRCodeHandler)
		drive.POST("/qrcode/image", h.QRCodeImageHandler)
		drive.POST("/qrcode/status", h.QRCodeStatusHandler)
		drive.POST("/qrcode/login", h.QRCodeLoginHandler)
		drive.POST("/tasks/add", h.AddTasksHandler)
	}

	// 凭证库 + 提交入口
	apiGroup := r.Group("/api/v1")
	{
		apiGroup.GET("/credentials", h.ListCredentialsHandler)
		apiGroup.POST("/credentials", h.CreateCredentialHandler)
		apiGroup.DELETE("/credentials", h.DeleteAllCredentialsHandler)
		apiGroup.GET("/credentials/count", h.CountCredentialsHandler)
		apiGroup.GET("/credentials/latest", h.LatestCredentialsHandler)
		apiGroup.POST("/credentials/from-cookie", h.CreateFromCookieHandler)
		apiGroup.GET("/credentials/:id", h.GetCredentialHandler)
		apiGroup.PUT("/credentials/:id", h.UpdateCredentialHandler)
		apiGroup.DELETE("/credentials/:id", h.DeleteCredentialHandler)

		apiGroup.POST("/downloads", h.SubmitDownloadHandler)
	}
}
