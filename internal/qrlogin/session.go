// Package qrlogin 实现 115 扫码登录的客户端状态机：
// 发起会话 -> 定时轮询扫码状态 -> 确认后换取凭证并入库
package qrlogin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mikanbox/pan115-gateway/internal/gateway"
	"github.com/mikanbox/pan115-gateway/internal/model"
)

// 远端返回的扫码状态值
const (
	StatusWaiting  = 0  // 等待扫码
	StatusScanned  = 1  // 已扫码，等待确认
	StatusApproved = 2  // 已确认，可以换取凭证
	StatusExpired  = -1 // 二维码过期
	StatusCanceled = -2 // 用户取消
)

// DefaultPollInterval 固定 2 秒轮询，页面切后台也不暂停
const DefaultPollInterval = 2 * time.Second

type State int

const (
	StateIdle State = iota
	StateStarted
	StatePolling
	StateApproved
	StateExpired
	StateCanceled
	StateExchanged
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarted:
		return "started"
	case StatePolling:
		return "polling"
	case StateApproved:
		return "approved"
	case StateExpired:
		return "expired"
	case StateCanceled:
		return "canceled"
	case StateExchanged:
		return "exchanged"
	default:
		return "unknown"
	}
}

// ErrInvalidState 当前状态不允许该操作 (比如 Reset 之后再 Exchange)
var ErrInvalidState = errors.New("qr login session: operation not allowed in current state")

// LoginRejectedError 远端拒绝本次登录 (success=false)
type LoginRejectedError struct {
	Message string
}

func (e *LoginRejectedError) Error() string {
	return fmt.Sprintf("login rejected: %s", e.Message)
}

// Client 是会话需要的网关操作子集，*gateway.Client 满足该接口
type Client interface {
	StartQRCode(ctx context.Context) (*gateway.QRCodeSession, error)
	CheckQRCodeStatus(ctx context.Context, uid string, t int64, sign string) (*gateway.QRCodeStatus, error)
	CompleteLogin(ctx context.Context, uid, sign string, t int64) (*gateway.LoginResult, error)
}

// CredentialSaver 换取成功后落库凭证，*store.CredentialStore 满足该接口
type CredentialSaver interface {
	Create(userID, name, uid, cid, seid, kid string) (*model.Credential, error)
}

// Event 状态机的可观测输出，Run 的消费方通过 channel 接收
type Event struct {
	State      State
	Status     int
	Credential *model.Credential
	Err        error
}

// Session 单次扫码登录会话，由发起方独占持有
// 所有字段变更都在锁内，网络调用在锁外
type Session struct {
	client   Client
	creds    CredentialSaver
	interval time.Duration

	mu            sync.Mutex
	state         State
	gen           uint64 // 会话代数，Reset 递增，跨代的在途结果一律丢弃
	uid           string
	sign          string
	time          int64
	qrcodeContent string
	status        int
	exchangeBegun bool
	cancelRun     context.CancelFunc
}

type Option func(*Session)

// WithPollInterval 覆盖轮询间隔，测试用
func WithPollInterval(d time.Duration) Option {
	return func(s *Session) { s.interval = d }
}

func NewSession(client Client, creds CredentialSaver, opts ...Option) *Session {
	s := &Session{
		client:   client,
		creds:    creds,
		interval: DefaultPollInterval,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Status() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// QRCodeContent 二维码展示内容，Started 之后有效
func (s *Session) QRCodeContent() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.qrcodeContent
}

func (s *Session) UID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uid
}

// Start 发起扫码会话，只能从 Idle 进入
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrInvalidState
	}
	s.state = StateStarted
	s.mu.Unlock()

	session, err := s.client.StartQRCode(ctx)
	if err != nil {
		s.mu.Lock()
		// 失败回到 Idle，调用方可以直接重新 Start
		if s.state == StateStarted {
			s.state = StateIdle
		}
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateStarted {
		// Start 期间被 Reset 了，丢弃结果
		return ErrInvalidState
	}
	s.uid = session.UID
	s.sign = session.Sign
	s.time = session.Time
	s.qrcodeContent = session.QRCodeContent
	s.status = StatusWaiting
	s.state = StatePolling
	return nil
}

// Poll 执行一次状态查询
// 单次失败只作为瞬时错误返回，不终结状态机；换取开始后到达的结果直接丢弃
func (s *Session) Poll(ctx context.Context) (int, error) {
	s.mu.Lock()
	if s.state != StatePolling || s.exchangeBegun {
		status := s.status
		s.mu.Unlock()
		return status, ErrInvalidState
	}
	uid, t, sign := s.uid, s.time, s.sign
	gen := s.gen
	s.mu.Unlock()

	result, err := s.client.CheckQRCodeStatus(ctx, uid, t, sign)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePolling || s.exchangeBegun || s.gen != gen {
		// 轮询期间发生了 Reset 或 Exchange，忽略这次结果
		// 代数检查兜住 Reset 后又 Start 的情况，旧会话的结果不能写进新会话
		return s.status, ErrInvalidState
	}
	if err != nil {
		return s.status, err
	}

	s.status = result.Status
	switch result.Status {
	case StatusApproved:
		s.state = StateApproved
	case StatusExpired:
		s.state = StateExpired
	case StatusCanceled:
		s.state = StateCanceled
	}
	return result.Status, nil
}

// Exchange 换取长期凭证并入库，每个会话最多尝试一次
// name 为空时退到时间戳命名；网络失败不自动重试，调用方 Reset 后重来
func (s *Session) Exchange(ctx context.Context, userID, name string) (*model.Credential, error) {
	s.mu.Lock()
	if s.state != StateApproved || s.exchangeBegun {
		s.mu.Unlock()
		return nil, ErrInvalidState
	}
	s.exchangeBegun = true
	uid, sign, t := s.uid, s.sign, s.time
	gen := s.gen
	s.mu.Unlock()

	result, err := s.client.CompleteLogin(ctx, uid, sign, t)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, &LoginRejectedError{Message: result.Message}
	}

	// 换取期间被 Reset 的话不落库，凭证直接作废
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return nil, ErrInvalidState
	}
	s.mu.Unlock()

	if name == "" {
		name = fmt.Sprintf("115 Account %d", time.Now().UnixMilli())
	}
	cred, err := s.creds.Create(userID, name,
		result.Credentials.UID,
		result.Credentials.CID,
		result.Credentials.SEID,
		result.Credentials.KID,
	)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.gen == gen {
		s.state = StateExchanged
	}
	s.mu.Unlock()
	return cred, nil
}

// Reset 任何状态下都可调用，取消未完成的轮询调度并回到 Idle
func (s *Session) Reset() {
	s.mu.Lock()
	cancel := s.cancelRun
	s.cancelRun = nil
	s.gen++
	s.state = StateIdle
	s.uid = ""
	s.sign = ""
	s.time = 0
	s.qrcodeContent = ""
	s.status = StatusWaiting
	s.exchangeBegun = false
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Run 驱动整个握手：固定间隔轮询直到终态，已确认时自动换取一次
// 同一会话同时只有一个在途轮询请求。事件流在驱动结束后关闭
func (s *Session) Run(ctx context.Context, userID, name string) <-chan Event {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.cancelRun = cancel
	s.mu.Unlock()

	events := make(chan Event, 8)
	go func() {
		defer close(events)
		defer cancel()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		// 消费方可能早就弃掉了事件流，发送必须能被 Reset 的取消打断，
		// 否则缓冲写满后协程和 ticker 就一直挂着
		emit := func(ev Event) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			status, err := s.Poll(ctx)
			if err != nil {
				if errors.Is(err, ErrInvalidState) || ctx.Err() != nil {
					// 会话已被 Reset 或换取已开始，停止调度
					return
				}
				// 瞬时错误，继续下一轮
				if !emit(Event{State: s.State(), Status: status, Err: err}) {
					return
				}
			} else {
				if !emit(Event{State: s.State(), Status: status}) {
					return
				}

				switch status {
				case StatusApproved:
					cred, err := s.Exchange(ctx, userID, name)
					emit(Event{State: s.State(), Status: status, Credential: cred, Err: err})
					return
				case StatusExpired, StatusCanceled:
					return
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return events
}
