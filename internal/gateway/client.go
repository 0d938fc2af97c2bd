// Package gateway 是网盘网关 /api/v1/115 接口的客户端，
// 扫码登录与离线任务提交都走这里
package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mikanbox/pan115-gateway/internal/model"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	client *resty.Client
}

// NewClient 创建指向网关服务的客户端，baseURL 不含 /api/v1/115 前缀
func NewClient(baseURL string) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")

	client := resty.New().
		SetBaseURL(baseURL + "/api/v1/115").
		SetTimeout(defaultTimeout).
		SetHeader("Content-Type", "application/json")

	return &Client{client: client}
}

// StartQRCode 开始一次扫码登录会话
func (c *Client) StartQRCode(ctx context.Context) (*QRCodeSession, error) {
	var session QRCodeSession
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&session).
		Post("/qrcode/start")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %s", ErrRemoteUnavailable, resp.Status())
	}
	return &session, nil
}

// QRCodeImage 拉取二维码图片 (二进制)
func (c *Client) QRCodeImage(ctx context.Context, uid string) ([]byte, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"uid": uid}).
		Post("/qrcode/image")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %s", ErrRemoteUnavailable, resp.Status())
	}
	return resp.Body(), nil
}

// CheckQRCodeStatus 查询一次扫码状态
func (c *Client) CheckQRCodeStatus(ctx context.Context, uid string, t int64, sign string) (*QRCodeStatus, error) {
	var status QRCodeStatus
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"uid":  uid,
			"time": t,
			"sign": sign,
		}).
		SetResult(&status).
		Post("/qrcode/status")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %s", ErrRemoteUnavailable, resp.Status())
	}
	return &status, nil
}

// CompleteLogin 扫码确认后换取长期凭证
// success=false 由调用方处理，这里只负责传输层
func (c *Client) CompleteLogin(ctx context.Context, uid, sign string, t int64) (*LoginResult, error) {
	var result LoginResult
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"uid":  uid,
			"sign": sign,
			"time": t,
		}).
		SetResult(&result).
		Post("/qrcode/login")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %s", ErrRemoteUnavailable, resp.Status())
	}
	return &result, nil
}

// AddTasks 提交一批磁力链接做离线下载
// 非 2xx 映射为 *SubmitError，带回远端状态码和响应体
func (c *Client) AddTasks(ctx context.Context, tokens model.CredentialTokens, urls []string, saveDirID string) (*TaskResult, error) {
	var result TaskResult
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(TaskRequest{
			Credentials: tokens,
			URLs:        urls,
			SaveDirID:   saveDirID,
		}).
		SetResult(&result).
		Post("/tasks/add")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	if resp.IsError() {
		return nil, &SubmitError{
			StatusCode: resp.StatusCode(),
			Body:       resp.String(),
		}
	}
	return &result, nil
}
