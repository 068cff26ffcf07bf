package apperr

import (
	"errors"
	"fmt"
)

// 服务层错误分类；transport 层据此映射业务码。
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalid         = errors.New("invalid")
	ErrStorage         = errors.New("storage failure")
)

func Unauthenticated(msg string) error { return wrap(ErrUnauthenticated, msg) }
func Forbidden(msg string) error       { return wrap(ErrForbidden, msg) }
func NotFound(msg string) error        { return wrap(ErrNotFound, msg) }
func Conflict(msg string) error        { return wrap(ErrConflict, msg) }
func Invalid(msg string) error         { return wrap(ErrInvalid, msg) }

func Storage(msg string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %v: %w", msg, err, ErrStorage)
	}
	return wrap(ErrStorage, msg)
}

func wrap(kind error, msg string) error {
	if msg == "" {
		return kind
	}
	return fmt.Errorf("%s: %w", msg, kind)
}
