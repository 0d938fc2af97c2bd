// Package submit 校验并提交磁力链接批次到网盘网关的离线下载接口
package submit

import (
	"context"
	"errors"
	"strings"

	"github.com/mikanbox/pan115-gateway/internal/gateway"
	"github.com/mikanbox/pan115-gateway/internal/model"
	"github.com/mikanbox/pan115-gateway/internal/store"
)

const maxURLs = 50

// CredentialGetter 凭证查询，*store.CredentialStore 满足该接口
type CredentialGetter interface {
	Get(id uint) (*model.Credential, error)
}

// TaskAdder 离线任务提交，*gateway.Client 满足该接口
type TaskAdder interface {
	AddTasks(ctx context.Context, tokens model.CredentialTokens, urls []string, saveDirID string) (*gateway.TaskResult, error)
}

type Submitter struct {
	creds CredentialGetter
	tasks TaskAdder
}

func NewSubmitter(creds CredentialGetter, tasks TaskAdder) *Submitter {
	return &Submitter{creds: creds, tasks: tasks}
}

// Submit 校验一批磁力链接并提交离线下载，校验按顺序快速失败
// userID 非空时要求凭证属于该用户；远端调用视作原子，要么全收要么整体失败
func (s *Submitter) Submit(ctx context.Context, credentialID uint, urls []string, saveDirID, userID string) (*gateway.TaskResult, error) {
	if credentialID == 0 {
		return nil, ErrMissingCredential
	}

	filtered, err := FilterURLs(urls)
	if err != nil {
		return nil, err
	}

	cred, err := s.creds.Get(credentialID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCredentialNotFound
		}
		return nil, err
	}

	// 归属校验由提交方负责，store 不感知调用者身份
	if userID != "" && cred.UserID != userID {
		return nil, ErrUnauthorized
	}

	return s.tasks.AddTasks(ctx, cred.Tokens(), filtered, saveDirID)
}

// FilterURLs 去掉首尾空白和空行，再做数量与磁力前缀检查
// 网关的 /tasks/add 入口复用同一套规则
func FilterURLs(urls []string) ([]string, error) {
	filtered := make([]string, 0, len(urls))
	invalid := 0
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if !strings.HasPrefix(u, "magnet:") {
			invalid++
		}
		filtered = append(filtered, u)
	}

	if len(filtered) == 0 {
		return nil, ErrMissingUrls
	}
	if len(filtered) > maxURLs {
		return nil, ErrTooManyUrls
	}
	if invalid > 0 {
		return nil, &InvalidURLFormatError{Count: invalid}
	}
	return filtered, nil
}
