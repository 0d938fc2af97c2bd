package store

import "errors"

var (
	// ErrDuplicateName 同一用户下凭证名称重复
	ErrDuplicateName = errors.New("credentials with this name already exist for this user")
	// ErrNotFound 凭证不存在
	ErrNotFound = errors.New("credentials not found")
)
