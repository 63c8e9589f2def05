package backend

import (
	"bytes"
	"reflect"
	"sync"

	"github.com/fyerfyer/fyer-typedsql/orm/internal/ferr"
	"github.com/fyerfyer/fyer-typedsql/orm/types"
)

// Backend 数据库方言能力：标识符引用、占位符、类型元数据以及值的编解码
type Backend interface {
	// Name 后端名称，也是注册表中的键
	Name() string

	// QuoteIdentifier 对表名、列名等标识符进行引用
	QuoteIdentifier(name string) string

	// Placeholder 生成第 index 个参数的占位符，index 从 1 开始
	Placeholder(index int) string

	// TypeMetadata 查询类型标记的元数据，Nullable[T] 使用 T 的元数据
	TypeMetadata(tag types.SqlType) (Metadata, error)

	// EncodeValue 按后端的文本协议编码宿主值
	EncodeValue(meta Metadata, value any, out *bytes.Buffer) error

	// DecodeValue 把原始文本解码到 dst 指向的宿主值
	DecodeValue(meta Metadata, raw []byte, dst any) error
}

// Metadata 类型标记在某个后端上的元数据
type Metadata struct {
	TypeName string
	OID      uint32
	// Kind 参数交给驱动时的 Go 类型，零值按文本传递
	Kind DriverKind
}

// Option 构造后端时的配置项
type Option func(r *registry)

// WithType 注册自定义类型标记的元数据
func WithType(tag types.SqlType, meta Metadata) Option {
	return func(r *registry) {
		r.set(tag, meta)
	}
}

// registry 类型元数据注册表，构造完成后只读
type registry struct {
	backend string
	types   map[reflect.Type]Metadata
}

func newRegistry(backend string, builtin map[types.SqlType]Metadata, opts []Option) registry {
	r := registry{
		backend: backend,
		types:   make(map[reflect.Type]Metadata, len(builtin)+len(opts)),
	}
	for tag, meta := range builtin {
		r.set(tag, meta)
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r *registry) set(tag types.SqlType, meta Metadata) {
	r.types[reflect.TypeOf(types.Unwrap(tag))] = meta
}

func (r *registry) TypeMetadata(tag types.SqlType) (Metadata, error) {
	tag = types.Unwrap(tag)
	meta, ok := r.types[reflect.TypeOf(tag)]
	if !ok {
		return Metadata{}, ferr.ErrUnregistered(tag.Name(), r.backend)
	}
	return meta, nil
}

var (
	mu       sync.RWMutex
	backends = make(map[string]Backend)
)

// Register 注册一个后端，同名覆盖
func Register(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	backends[b.Name()] = b
}

// Get 按名称获取后端
func Get(name string) (Backend, error) {
	mu.RLock()
	defer mu.RUnlock()
	b, ok := backends[name]
	if !ok {
		return nil, ferr.ErrInvalidBackend(name)
	}
	return b, nil
}

func init() {
	Register(NewPostgres())
	Register(NewMysql())
	Register(NewSqlite())
	Register(NewDebug())
}
