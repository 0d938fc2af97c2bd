package gateway

import "github.com/mikanbox/pan115-gateway/internal/model"

// QRCodeSession 扫码会话，start 返回的四个字段在后续轮询/登录时原样带回
type QRCodeSession struct {
	QRCodeContent string `json:"qrcodeContent"`
	Sign          string `json:"sign"`
	Time          int64  `json:"time"`
	UID           string `json:"uid"`
}

// QRCodeStatus 轮询结果
// status: 0 等待扫码, 1 已扫码, 2 已确认, -1 二维码过期, -2 用户取消
type QRCodeStatus struct {
	Status  int    `json:"status"`
	Msg     string `json:"msg"`
	Version string `json:"version"`
}

// LoginResult 扫码确认后换取的凭证
type LoginResult struct {
	Success     bool                   `json:"success"`
	Message     string                 `json:"message"`
	Credentials model.CredentialTokens `json:"credentials"`
}

// TaskRequest 离线下载任务请求体
type TaskRequest struct {
	Credentials model.CredentialTokens `json:"credentials"`
	URLs        []string               `json:"urls"`
	SaveDirID   string                 `json:"save_dir_id,omitempty"`
}

// TaskResult 离线下载任务结果
type TaskResult struct {
	Message string   `json:"message"`
	Hashes  []string `json:"hashes"`
	Count   int      `json:"count"`
}
