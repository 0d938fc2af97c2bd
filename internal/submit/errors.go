package submit

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredential  = errors.New("credential ID is required")
	ErrMissingUrls        = errors.New("at least one URL is required")
	ErrTooManyUrls        = errors.New("maximum 50 URLs allowed")
	ErrCredentialNotFound = errors.New("credentials not found")
	ErrUnauthorized       = errors.New("unauthorized access to credentials")
)

// InvalidURLFormatError 列表里混进了非磁力链接，Count 是不合法条数
type InvalidURLFormatError struct {
	Count int
}

func (e *InvalidURLFormatError) Error() string {
	return fmt.Sprintf("all URLs must be valid magnet links starting with \"magnet:\" (%d invalid)", e.Count)
}
