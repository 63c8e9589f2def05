package backend

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lib/pq"

	"github.com/fyerfyer/fyer-typedsql/orm/types"
)

const PostgresName = "postgres"

// Postgres 使用 $n 占位符，参数和结果都使用 PostgreSQL 文本格式
type Postgres struct {
	registry
	maps sync.Pool
}

var postgresTypes = map[types.SqlType]Metadata{
	types.SmallInt{}:  {TypeName: "int2", OID: pgtype.Int2OID},
	types.Integer{}:   {TypeName: "int4", OID: pgtype.Int4OID},
	types.BigInt{}:    {TypeName: "int8", OID: pgtype.Int8OID},
	types.Float{}:     {TypeName: "float4", OID: pgtype.Float4OID},
	types.Double{}:    {TypeName: "float8", OID: pgtype.Float8OID},
	types.VarChar{}:   {TypeName: "varchar", OID: pgtype.VarcharOID},
	types.Text{}:      {TypeName: "text", OID: pgtype.TextOID},
	types.Bool{}:      {TypeName: "bool", OID: pgtype.BoolOID},
	types.Timestamp{}: {TypeName: "timestamp", OID: pgtype.TimestampOID},
	types.Binary{}:    {TypeName: "bytea", OID: pgtype.ByteaOID},
	types.Uuid{}:      {TypeName: "uuid", OID: pgtype.UUIDOID},
}

func NewPostgres(opts ...Option) *Postgres {
	return &Postgres{
		registry: newRegistry(PostgresName, postgresTypes, opts),
		maps: sync.Pool{New: func() any {
			return pgtype.NewMap()
		}},
	}
}

func (p *Postgres) Name() string { return PostgresName }

func (p *Postgres) QuoteIdentifier(name string) string {
	return pq.QuoteIdentifier(name)
}

func (p *Postgres) Placeholder(index int) string {
	return "$" + strconv.Itoa(index)
}

// pgtype.Map 缓存了编码计划，不能并发使用
func (p *Postgres) EncodeValue(meta Metadata, value any, out *bytes.Buffer) error {
	m := p.maps.Get().(*pgtype.Map)
	defer p.maps.Put(m)
	buf, err := m.Encode(meta.OID, pgtype.TextFormatCode, value, out.AvailableBuffer())
	if err != nil {
		return err
	}
	out.Write(buf)
	return nil
}

func (p *Postgres) DecodeValue(meta Metadata, raw []byte, dst any) error {
	m := p.maps.Get().(*pgtype.Map)
	defer p.maps.Put(m)
	return m.Scan(meta.OID, pgtype.TextFormatCode, raw, dst)
}

// RawValue pgx 的 database/sql 驱动会先把 bytea 解码成 []byte，这里还原成文本格式的 \x 十六进制
func (p *Postgres) RawValue(v any) []byte {
	if b, ok := v.([]byte); ok {
		out := make([]byte, 2+hex.EncodedLen(len(b)))
		out[0], out[1] = '\\', 'x'
		hex.Encode(out[2:], b)
		return out
	}
	return textValue(v)
}
