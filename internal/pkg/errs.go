package pkg

import "errors"

// ErrorKind 面向调用方的错误分类，handler 层据此映射 HTTP 状态码
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindUnauthenticated
	KindUnauthorized
	KindNotFound
	KindConflict
	KindInvalidOperation
)

type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string { return e.Message }

func Unauthenticated(msg string) error {
	return &DomainError{Kind: KindUnauthenticated, Message: msg}
}

func Unauthorized(msg string) error {
	return &DomainError{Kind: KindUnauthorized, Message: msg}
}

func NotFound(msg string) error {
	return &DomainError{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) error {
	return &DomainError{Kind: KindConflict, Message: msg}
}

func InvalidOperation(msg string) error {
	return &DomainError{Kind: KindInvalidOperation, Message: msg}
}

// KindOf 非领域错误一律按 Internal 处理
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
