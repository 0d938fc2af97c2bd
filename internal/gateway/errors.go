package gateway

import (
	"errors"
	"fmt"
)

// ErrRemoteUnavailable 网络错误或非 2xx 响应
var ErrRemoteUnavailable = errors.New("cloud-drive gateway unavailable")

// SubmitError 离线任务提交被远端拒绝，保留原始状态码和响应体
// 方便调用方区分 "我们的输入有问题" 和 "远端挂了"
type SubmitError struct {
	StatusCode int
	Body       string
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("remote submit failed: status %d: %s", e.StatusCode, e.Body)
}
