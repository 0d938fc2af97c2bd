package store

import (
	"errors"
	"strings"
	"time"

	"github.com/mikanbox/pan115-gateway/internal/model"
	"gorm.io/gorm"
)

// CredentialStore 管理每个用户名下的 115 凭证集合
// 所有写操作在事务里做唯一性检查，配合 (user_id, name) 唯一索引，
// 并发的同名写入只会有一个成功
type CredentialStore struct {
	db *gorm.DB
}

func NewCredentialStore(db *gorm.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// UpdateFields 部分更新，nil 字段保持原值
type UpdateFields struct {
	Name *string `json:"name"`
	UID  *string `json:"uid"`
	CID  *string `json:"cid"`
	SEID *string `json:"seid"`
	KID  *string `json:"kid"`
}

func (s *CredentialStore) Create(userID, name, uid, cid, seid, kid string) (*model.Credential, error) {
	now := time.Now().UnixMilli()
	cred := &model.Credential{
		UserID:    userID,
		Name:      name,
		UID:       uid,
		CID:       cid,
		SEID:      seid,
		KID:       kid,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Credential{}).
			Where("user_id = ? AND name = ?", userID, name).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateName
		}
		return tx.Create(cred).Error
	})
	if err != nil {
		return nil, translateDuplicate(err)
	}
	return cred, nil
}

func (s *CredentialStore) Update(id uint, fields UpdateFields) (*model.Credential, error) {
	var cred model.Credential

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cred, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// 改名时检查同用户下是否撞名
		if fields.Name != nil && *fields.Name != cred.Name {
			var count int64
			if err := tx.Model(&model.Credential{}).
				Where("user_id = ? AND name = ? AND id <> ?", cred.UserID, *fields.Name, id).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrDuplicateName
			}
		}

		updates := map[string]interface{}{
			"updated_at": time.Now().UnixMilli(),
		}
		if fields.Name != nil {
			updates["name"] = *fields.Name
		}
		if fields.UID != nil {
			updates["uid"] = *fields.UID
		}
		if fields.CID != nil {
			updates["cid"] = *fields.CID
		}
		if fields.SEID != nil {
			updates["seid"] = *fields.SEID
		}
		if fields.KID != nil {
			updates["kid"] = *fields.KID
		}

		if err := tx.Model(&cred).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&cred, id).Error
	})
	if err != nil {
		return nil, translateDuplicate(err)
	}
	return &cred, nil
}

func (s *CredentialStore) Delete(id uint) error {
	res := s.db.Delete(&model.Credential{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllForUser 返回删除的条数，没有记录也不算失败
func (s *CredentialStore) DeleteAllForUser(userID string) (int64, error) {
	res := s.db.Where("user_id = ?", userID).Delete(&model.Credential{})
	return res.RowsAffected, res.Error
}

func (s *CredentialStore) Get(id uint) (*model.Credential, error) {
	var cred model.Credential
	if err := s.db.First(&cred, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cred, nil
}

// ListForUser 按创建时间倒序 (最新的在前)
func (s *CredentialStore) ListForUser(userID string) ([]model.Credential, error) {
	var creds []model.Credential
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&creds).Error
	return creds, err
}

func (s *CredentialStore) CountForUser(userID string) (int64, error) {
	var count int64
	err := s.db.Model(&model.Credential{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (s *CredentialStore) LatestForUser(userID string, limit int) ([]model.Credential, error) {
	if limit <= 0 {
		limit = 1
	}
	var creds []model.Credential
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&creds).Error
	return creds, err
}

// translateDuplicate 把唯一索引冲突统一映射成 ErrDuplicateName
// 事务里的预检查能拦住大多数情况，索引兜底并发竞争
func translateDuplicate(err error) error {
	if errors.Is(err, ErrDuplicateName) || errors.Is(err, ErrNotFound) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicateName
	}
	return err
}
