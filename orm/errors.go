package orm

import "github.com/fyerfyer/fyer-typedsql/orm/internal/ferr"

var (
	ErrNoRows           = ferr.ErrNoRows
	ErrUnexpectedNull   = ferr.ErrUnexpectedNull
	ErrUnregisteredType = ferr.ErrUnregisteredType
	ErrEncode           = ferr.ErrEncode
	ErrDecode           = ferr.ErrDecode

	ErrInvalidConnection = ferr.ErrInvalidConnection
)

type (
	UnexpectedNullError = ferr.UnexpectedNullError
	EncodeError         = ferr.EncodeError
	DecodeError         = ferr.DecodeError
)
