package model

// Credential 保存一组 115 网盘的登录凭证 (四个 cookie 值)
// 同一用户下 Name 唯一
type Credential struct {
	ID     uint   `json:"id" gorm:"primarykey"`
	UserID string `json:"user_id" gorm:"index;uniqueIndex:idx_user_name"`
	Name   string `json:"name" gorm:"uniqueIndex:idx_user_name"`
	UID    string `json:"uid"`
	CID    string `json:"cid"`
	SEID   string `json:"seid"`
	KID    string `json:"kid"`
	// 毫秒时间戳，与前端保持一致
	CreatedAt int64 `json:"created_at" gorm:"autoCreateTime:false"`
	UpdatedAt int64 `json:"updated_at" gorm:"autoUpdateTime:false"`
}

// CredentialTokens 是离线任务请求里携带的四元组
type CredentialTokens struct {
	UID  string `json:"uid"`
	CID  string `json:"cid"`
	SEID string `json:"seid"`
	KID  string `json:"kid"`
}

// Tokens returns the four cookie values of a stored credential.
func (c *Credential) Tokens() CredentialTokens {
	return CredentialTokens{
		UID:  c.UID,
		CID:  c.CID,
		SEID: c.SEID,
		KID:  c.KID,
	}
}
