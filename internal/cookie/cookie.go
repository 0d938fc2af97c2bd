// Package cookie 从浏览器导出的原始 cookie 串里提取 115 凭证，
// 作为扫码登录之外的兜底导入方式
package cookie

import (
	"errors"
	"strings"

	"github.com/mikanbox/pan115-gateway/internal/model"
)

// ErrIncompleteCredentials 四个值没凑齐，不允许落库半套凭证
var ErrIncompleteCredentials = errors.New("could not extract all required credentials from cookie string")

// Extract scans a raw cookie string for the UID/CID/SEID/KID tokens.
// Missing tokens resolve to empty strings; any empty token is an error.
func Extract(cookieString string) (model.CredentialTokens, error) {
	tokens := model.CredentialTokens{
		UID:  extractValue(cookieString, "UID"),
		CID:  extractValue(cookieString, "CID"),
		SEID: extractValue(cookieString, "SEID"),
		KID:  extractValue(cookieString, "KID"),
	}

	if tokens.UID == "" || tokens.CID == "" || tokens.SEID == "" || tokens.KID == "" {
		return model.CredentialTokens{}, ErrIncompleteCredentials
	}
	return tokens, nil
}

// extractValue 找 "NAME=value" 形式的片段，片段之间以 ; 分隔
func extractValue(cookieString, name string) string {
	for _, part := range strings.Split(cookieString, ";") {
		part = strings.TrimSpace(part)
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		if key == name {
			return value
		}
	}
	return ""
}
