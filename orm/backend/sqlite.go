package backend

import (
	"strings"

	"github.com/fyerfyer/fyer-typedsql/orm/types"
)

const SqliteName = "sqlite"

type Sqlite struct {
	registry
	textEncoding
}

// 时间存成文本列，参数也按文本绑定才能和列值比较
var sqliteTypes = map[types.SqlType]Metadata{
	types.SmallInt{}:  {TypeName: "INTEGER", Kind: KindInt},
	types.Integer{}:   {TypeName: "INTEGER", Kind: KindInt},
	types.BigInt{}:    {TypeName: "INTEGER", Kind: KindInt},
	types.Float{}:     {TypeName: "REAL", Kind: KindFloat},
	types.Double{}:    {TypeName: "REAL", Kind: KindFloat},
	types.VarChar{}:   {TypeName: "TEXT"},
	types.Text{}:      {TypeName: "TEXT"},
	types.Bool{}:      {TypeName: "INTEGER", Kind: KindBool},
	types.Timestamp{}: {TypeName: "TEXT"},
	types.Binary{}:    {TypeName: "BLOB", Kind: KindBytes},
	types.Uuid{}:      {TypeName: "TEXT"},
}

func NewSqlite(opts ...Option) *Sqlite {
	return &Sqlite{registry: newRegistry(SqliteName, sqliteTypes, opts)}
}

func (s *Sqlite) Name() string { return SqliteName }

func (s *Sqlite) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (s *Sqlite) Placeholder(int) string {
	return "?"
}
