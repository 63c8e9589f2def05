package backend

import (
	"bytes"
	"errors"

	"github.com/fyerfyer/fyer-typedsql/orm/types"
)

const DebugName = "debug"

var errDebugValue = errors.New("debug backend does not carry values")

// Debug 只用于把查询渲染成可读的 SQL：标识符不加引号，占位符统一为 ?
type Debug struct{}

func NewDebug() *Debug { return &Debug{} }

func (*Debug) Name() string { return DebugName }

func (*Debug) QuoteIdentifier(name string) string { return name }

func (*Debug) Placeholder(int) string { return "?" }

func (*Debug) TypeMetadata(tag types.SqlType) (Metadata, error) {
	return Metadata{TypeName: types.Unwrap(tag).Name()}, nil
}

func (*Debug) EncodeValue(Metadata, any, *bytes.Buffer) error { return errDebugValue }

func (*Debug) DecodeValue(Metadata, []byte, any) error { return errDebugValue }
