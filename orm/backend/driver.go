package backend

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DriverKind 参数交给 database/sql 驱动时使用的 Go 类型
type DriverKind uint8

const (
	// KindText 以 string 传递，由服务端按上下文推断类型
	KindText DriverKind = iota
	KindInt
	KindFloat
	KindBool
	KindTime
	KindBytes
)

func (k DriverKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	case KindBytes:
		return "bytes"
	default:
		return "text"
	}
}

// DriverValue 把已编码的文本参数还原成驱动能原样绑定的值。
// SQLite 不会把文本参数和没有列亲和性的数值表达式比较相等，所以数值必须以数值绑定。
func (m Metadata) DriverValue(raw []byte) (driver.Value, error) {
	s := string(raw)
	switch m.Kind {
	case KindInt:
		return strconv.ParseInt(s, 10, 64)
	case KindFloat:
		return strconv.ParseFloat(s, 64)
	case KindBool:
		switch strings.ToLower(s) {
		case "1", "t", "true":
			return true, nil
		case "0", "f", "false":
			return false, nil
		}
		return nil, fmt.Errorf("invalid boolean %q", s)
	case KindTime:
		return time.ParseInLocation(timestampLayout, s, time.UTC)
	case KindBytes:
		return raw, nil
	default:
		return s, nil
	}
}

// RawValuer 由后端决定如何把 database/sql 扫描出的值还原成 DecodeValue 接受的原始形式
type RawValuer interface {
	RawValue(v any) []byte
}

// RawValue 驱动返回的值转成交给编解码器的原始字节，nil 表示 NULL
func RawValue(b Backend, v any) []byte {
	if rv, ok := b.(RawValuer); ok {
		return rv.RawValue(v)
	}
	return textValue(v)
}

func textValue(v any) []byte {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		return bytes.Clone(val)
	case string:
		return []byte(val)
	case int64:
		return strconv.AppendInt(nil, val, 10)
	case float64:
		return strconv.AppendFloat(nil, val, 'g', -1, 64)
	case bool:
		if val {
			return []byte("t")
		}
		return []byte("f")
	case time.Time:
		return []byte(val.UTC().Format(timestampLayout))
	default:
		return []byte(fmt.Sprint(val))
	}
}
