package backend

import (
	"strings"

	"github.com/fyerfyer/fyer-typedsql/orm/types"
)

const MysqlName = "mysql"

type Mysql struct {
	registry
	textEncoding
}

var mysqlTypes = map[types.SqlType]Metadata{
	types.SmallInt{}:  {TypeName: "SMALLINT", Kind: KindInt},
	types.Integer{}:   {TypeName: "INT", Kind: KindInt},
	types.BigInt{}:    {TypeName: "BIGINT", Kind: KindInt},
	types.Float{}:     {TypeName: "FLOAT", Kind: KindFloat},
	types.Double{}:    {TypeName: "DOUBLE", Kind: KindFloat},
	types.VarChar{}:   {TypeName: "VARCHAR"},
	types.Text{}:      {TypeName: "TEXT"},
	types.Bool{}:      {TypeName: "TINYINT", Kind: KindBool},
	types.Timestamp{}: {TypeName: "DATETIME", Kind: KindTime},
	types.Binary{}:    {TypeName: "BLOB", Kind: KindBytes},
	types.Uuid{}:      {TypeName: "CHAR(36)"},
}

func NewMysql(opts ...Option) *Mysql {
	return &Mysql{registry: newRegistry(MysqlName, mysqlTypes, opts)}
}

func (m *Mysql) Name() string { return MysqlName }

func (m *Mysql) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (m *Mysql) Placeholder(int) string {
	return "?"
}
