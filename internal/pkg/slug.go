package pkg

import (
	"errors"
	"regexp"
)

var (
	ErrSlugInvalid  = errors.New("slug invalid")
	ErrSlugReserved = errors.New("slug reserved")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,62}[a-z0-9])?$`)

// 全局保留字，避免和路由、站内页面冲突
var reservedSlugs = map[string]struct{}{
	"admin":    {},
	"api":      {},
	"app":      {},
	"login":    {},
	"logout":   {},
	"register": {},
	"settings": {},
	"support":  {},
	"home":     {},
	"explore":  {},
	"everything": {},
	"notifications": {},
	"me":   {},
	"new":  {},
	"null": {},
	"undefined": {},
}

// ValidateSlug 格式 + 保留字检查
func ValidateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return ErrSlugInvalid
	}
	if _, ok := reservedSlugs[slug]; ok {
		return ErrSlugReserved
	}
	return nil
}
