package drive115

import "fmt"

// 115 各接口的响应信封，qrcode/passport 系列 state 是 int，离线接口是 bool

type tokenResponse struct {
	State   int    `json:"state"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		UID    string `json:"uid"`
		Time   int64  `json:"time"`
		Sign   string `json:"sign"`
		QRCode string `json:"qrcode"`
	} `json:"data"`
}

type statusResponse struct {
	State   int    `json:"state"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Status  int    `json:"status"`
		Msg     string `json:"msg"`
		Version string `json:"version"`
	} `json:"data"`
}

type loginResponse struct {
	State   int    `json:"state"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Cookie struct {
			UID  string `json:"UID"`
			CID  string `json:"CID"`
			SEID string `json:"SEID"`
			KID  string `json:"KID"`
		} `json:"cookie"`
		UserID   int64  `json:"user_id"`
		UserName string `json:"user_name"`
	} `json:"data"`
}

type addTaskResponse struct {
	State  bool            `json:"state"`
	ErrNo  int             `json:"errno"`
	ErrMsg string          `json:"error_msg"`
	Result []addTaskResult `json:"result"`
}

type addTaskResult struct {
	State    bool   `json:"state"`
	InfoHash string `json:"info_hash"`
	Name     string `json:"name"`
	URL      string `json:"url"`
}

// UpstreamError 115 官方接口返回了非 2xx，保留状态码和响应体原样向上透传
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("115 upstream error: status %d: %s", e.StatusCode, e.Body)
}
