package backend

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fyerfyer/fyer-typedsql/orm/internal/ferr"
)

const timestampLayout = "2006-01-02 15:04:05.999999"

var timestampLayouts = []string{
	timestampLayout,
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// textEncoding MySQL 和 SQLite 共用的文本协议
type textEncoding struct{}

func (textEncoding) EncodeValue(_ Metadata, value any, out *bytes.Buffer) error {
	var buf []byte
	switch v := value.(type) {
	case int16:
		buf = strconv.AppendInt(out.AvailableBuffer(), int64(v), 10)
	case int32:
		buf = strconv.AppendInt(out.AvailableBuffer(), int64(v), 10)
	case int64:
		buf = strconv.AppendInt(out.AvailableBuffer(), v, 10)
	case float32:
		buf = strconv.AppendFloat(out.AvailableBuffer(), float64(v), 'g', -1, 32)
	case float64:
		buf = strconv.AppendFloat(out.AvailableBuffer(), v, 'g', -1, 64)
	case bool:
		if v {
			out.WriteByte('1')
		} else {
			out.WriteByte('0')
		}
		return nil
	case string:
		out.WriteString(v)
		return nil
	case []byte:
		out.Write(v)
		return nil
	case time.Time:
		out.WriteString(v.UTC().Format(timestampLayout))
		return nil
	default:
		return ferr.ErrUnsupportedValue(value)
	}
	out.Write(buf)
	return nil
}

func (textEncoding) DecodeValue(_ Metadata, raw []byte, dst any) error {
	s := string(raw)
	switch d := dst.(type) {
	case *int16:
		v, err := strconv.ParseInt(s, 10, 16)
		if err != nil {
			return err
		}
		*d = int16(v)
	case *int32:
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return err
		}
		*d = int32(v)
	case *int64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		*d = v
	case *float32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return err
		}
		*d = float32(v)
	case *float64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*d = v
	case *bool:
		switch strings.ToLower(s) {
		case "1", "t", "true":
			*d = true
		case "0", "f", "false":
			*d = false
		default:
			return fmt.Errorf("invalid boolean %q", s)
		}
	case *string:
		*d = s
	case *[]byte:
		*d = bytes.Clone(raw)
	case *time.Time:
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				*d = t
				return nil
			}
		}
		return fmt.Errorf("invalid timestamp %q", s)
	default:
		return ferr.ErrUnsupportedValue(dst)
	}
	return nil
}
