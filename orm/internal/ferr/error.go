package ferr

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

var (
	ErrNoRows            = fmt.Errorf("data not found")
	ErrUnexpectedNull    = errors.New("orm: unexpected null for non-null column")
	ErrUnregisteredType  = errors.New("orm: sql type is not registered for backend")
	ErrEncode            = errors.New("orm: encode error")
	ErrDecode            = errors.New("orm: decode error")
	ErrEmptyIdentifier   = errors.New("orm: empty identifier")
	ErrInvalidConnection = errors.New("orm: invalid database connection")
)

// UnexpectedNullError 非空列读到了 NULL
type UnexpectedNullError struct {
	Index  int
	Column string
}

func (e *UnexpectedNullError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("orm: unexpected null for non-null column at position %d", e.Index)
	}
	return fmt.Sprintf("orm: unexpected null for non-null column %q at position %d", e.Column, e.Index)
}

func (e *UnexpectedNullError) Is(target error) bool {
	return target == ErrUnexpectedNull
}

// EncodeError 宿主值无法编码成目标 SQL 类型
type EncodeError struct {
	Type  string
	Cause error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("orm: encode %s: %v", e.Type, e.Cause)
}

func (e *EncodeError) Is(target error) bool { return target == ErrEncode }

func (e *EncodeError) Unwrap() error { return e.Cause }

// DecodeError 原始列值无法解码成宿主类型
type DecodeError struct {
	Type   string
	Column string
	Cause  error
}

func (e *DecodeError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("orm: decode %s from column %q: %v", e.Type, e.Column, e.Cause)
	}
	return fmt.Sprintf("orm: decode %s: %v", e.Type, e.Cause)
}

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

func (e *DecodeError) Unwrap() error { return e.Cause }

func NewUnexpectedNull(index int, column string) error {
	return pkgerrors.WithStack(&UnexpectedNullError{Index: index, Column: column})
}

func NewEncodeError(typ string, cause error) error {
	return pkgerrors.WithStack(&EncodeError{Type: typ, Cause: cause})
}

func NewDecodeError(typ string, cause error) error {
	return pkgerrors.WithStack(&DecodeError{Type: typ, Cause: cause})
}

func ErrUnregistered(typ string, backend string) error {
	return fmt.Errorf("%w: %s on %s", ErrUnregisteredType, typ, backend)
}

func ErrUnsupportedValue(v any) error {
	return fmt.Errorf("unsupported host value %T", v)
}

func ErrInvalidBackend(v any) error {
	return fmt.Errorf("invalid backend: %v", v)
}

func ErrInvalidColumn(col string) error {
	return fmt.Errorf("invalid column name: %s", col)
}

func ErrDuplicateColumn(table, col string) error {
	return fmt.Errorf("orm: duplicate column %s.%s", table, col)
}

func ErrNotPrimaryKey(table, col string) error {
	return fmt.Errorf("orm: %s.%s is not the primary key", table, col)
}

// ErrNoResult 中间件既没有返回错误也没有返回结果集
func ErrNoResult(op string) error {
	return fmt.Errorf("orm: %s returned neither rows nor an error", op)
}

func ErrColumnCount(want, got int) error {
	return fmt.Errorf("orm: row reader expects %d columns, result has %d", want, got)
}

func ErrRecordField(table string, index int, want, got string) error {
	return fmt.Errorf("orm: record reader for %s: field %d reads %s, table declares %s", table, index, got, want)
}
