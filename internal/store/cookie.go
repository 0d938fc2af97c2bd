package store

import (
	"github.com/mikanbox/pan115-gateway/internal/cookie"
	"github.com/mikanbox/pan115-gateway/internal/model"
)

// CreateFromCookie 解析 cookie 串并入库，唯一性约束与 Create 一致
func (s *CredentialStore) CreateFromCookie(userID, name, cookieString string) (*model.Credential, error) {
	tokens, err := cookie.Extract(cookieString)
	if err != nil {
		return nil, err
	}
	return s.Create(userID, name, tokens.UID, tokens.CID, tokens.SEID, tokens.KID)
}
