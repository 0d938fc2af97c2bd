// Package drive115 对接 115 官方接口：扫码登录三件套和离线下载
// 离线接口依赖四个登录 cookie (UID/CID/SEID/KID)，逐请求手动携带
package drive115

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mikanbox/pan115-gateway/internal/config"
	"github.com/mikanbox/pan115-gateway/internal/gateway"
	"github.com/mikanbox/pan115-gateway/internal/model"
)

// 伪装浏览器 UA，115 对非浏览器请求可能限流
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type Client struct {
	qrcodeAPI   string
	passportAPI string
	lixianAPI   string
	client      *resty.Client
}

func NewClient(cfg config.UpstreamConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)

	return &Client{
		qrcodeAPI:   strings.TrimSuffix(cfg.QRCodeAPI, "/"),
		passportAPI: strings.TrimSuffix(cfg.PassportAPI, "/"),
		lixianAPI:   strings.TrimSuffix(cfg.LixianAPI, "/"),
		client:      client,
	}
}

// QRCodeStart 申请一个扫码会话 token
func (c *Client) QRCodeStart(ctx context.Context) (*gateway.QRCodeSession, error) {
	var result tokenResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&result).
		Get(c.qrcodeAPI + "/api/1.0/web/1.0/token/")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &UpstreamError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	if result.State != 1 {
		return nil, fmt.Errorf("qrcode token failed: %s", result.Message)
	}

	return &gateway.QRCodeSession{
		QRCodeContent: result.Data.QRCode,
		Sign:          result.Data.Sign,
		Time:          result.Data.Time,
		UID:           result.Data.UID,
	}, nil
}

// QRCodeImage 拉取二维码 PNG，网关直接透传给前端展示
func (c *Client) QRCodeImage(ctx context.Context, uid string) ([]byte, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("uid", uid).
		Get(c.qrcodeAPI + "/api/1.0/web/1.0/qrcode/")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &UpstreamError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return resp.Body(), nil
}

// QRCodeStatus 查询扫码状态，上游是长轮询接口，单次调用可能挂到超时
func (c *Client) QRCodeStatus(ctx context.Context, uid string, t int64, sign string) (*gateway.QRCodeStatus, error) {
	var result statusResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"uid":  uid,
			"time": fmt.Sprintf("%d", t),
			"sign": sign,
		}).
		SetResult(&result).
		Get(c.qrcodeAPI + "/get/status/")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &UpstreamError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	return &gateway.QRCodeStatus{
		Status:  result.Data.Status,
		Msg:     result.Data.Msg,
		Version: result.Data.Version,
	}, nil
}

// QRCodeLogin 确认后用会话 uid 换取四个登录 cookie
func (c *Client) QRCodeLogin(ctx context.Context, uid string) (*gateway.LoginResult, error) {
	var result loginResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"account": uid,
			"app":     "web",
		}).
		SetResult(&result).
		Post(c.passportAPI + "/app/1.0/web/1.0/login/qrcode/")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &UpstreamError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	if result.State != 1 {
		msg := result.Message
		if msg == "" {
			msg = fmt.Sprintf("login failed with code %d", result.Code)
		}
		return &gateway.LoginResult{Success: false, Message: msg}, nil
	}

	return &gateway.LoginResult{
		Success: true,
		Message: fmt.Sprintf("logged in as %s", result.Data.UserName),
		Credentials: model.CredentialTokens{
			UID:  result.Data.Cookie.UID,
			CID:  result.Data.Cookie.CID,
			SEID: result.Data.Cookie.SEID,
			KID:  result.Data.Cookie.KID,
		},
	}, nil
}

// AddTasks 提交磁力链接到离线下载队列
// 115 按任务逐条返回 info_hash，这里汇总成一个批次结果
func (c *Client) AddTasks(ctx context.Context, tokens model.CredentialTokens, urls []string, saveDirID string) (*gateway.TaskResult, error) {
	form := map[string]string{}
	for i, u := range urls {
		form[fmt.Sprintf("url[%d]", i)] = u
	}
	if saveDirID != "" {
		form["wp_path_id"] = saveDirID
	}

	var result addTaskResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ct": "lixian",
			"ac": "add_task_urls",
		}).
		SetFormData(form).
		SetCookies(credentialCookies(tokens)).
		SetResult(&result).
		Post(c.lixianAPI + "/web/lixian/")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &UpstreamError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	if !result.State {
		msg := result.ErrMsg
		if msg == "" {
			msg = fmt.Sprintf("add tasks failed with errno %d", result.ErrNo)
		}
		return nil, &UpstreamError{StatusCode: resp.StatusCode(), Body: msg}
	}

	hashes := make([]string, 0, len(result.Result))
	for _, task := range result.Result {
		if task.InfoHash != "" {
			hashes = append(hashes, task.InfoHash)
		}
	}

	return &gateway.TaskResult{
		Message: fmt.Sprintf("%d task(s) submitted", len(hashes)),
		Hashes:  hashes,
		Count:   len(hashes),
	}, nil
}

// credentialCookies 把凭证四元组转成请求 cookie
func credentialCookies(tokens model.CredentialTokens) []*http.Cookie {
	return []*http.Cookie{
		{Name: "UID", Value: tokens.UID},
		{Name: "CID", Value: tokens.CID},
		{Name: "SEID", Value: tokens.SEID},
		{Name: "KID", Value: tokens.KID},
	}
}
