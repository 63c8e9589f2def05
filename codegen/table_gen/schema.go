package table_gen

import (
	"fmt"
	"os"
	"strings"

	"sigs.k8s.io/yaml"
)

// Schema 一份表结构描述文件
type Schema struct {
	Package   string     `json:"package"`
	Tables    []Table    `json:"tables"`
	Joinables []Joinable `json:"joinables"`
	// Through 每一项是一条按顺序连接的表名链，至少三张表
	Through [][]string `json:"through"`
}

type Table struct {
	Name       string   `json:"name"`
	PrimaryKey string   `json:"primary_key"`
	Columns    []Column `json:"columns"`
	NoSelect   []Column `json:"no_select"`
}

type Column struct {
	Name string `json:"name"`
	// Type 类型标记名，可空列写作 Nullable<VarChar>
	Type string `json:"type"`
}

// Joinable 子表 Child 的 Column 列引用父表 Parent 的主键
type Joinable struct {
	Child  string `json:"child"`
	Column string `json:"column"`
	Parent string `json:"parent"`
}

// Parse 解析 YAML（或 JSON）格式的表结构描述
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.UnmarshalStrict(data, &s); err != nil {
		return nil, fmt.Errorf("parse schema error: %w", err)
	}
	return &s, nil
}

// ParseFile 读取并解析表结构描述文件
func ParseFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema error: %w", err)
	}
	return Parse(data)
}

type typeInfo struct {
	tag    string
	codec  string
	goType string
	imp    string
}

var knownTypes = map[string]typeInfo{
	"SmallInt":  {tag: "types.SmallInt", codec: "codec.SmallInt", goType: "int16"},
	"Integer":   {tag: "types.Integer", codec: "codec.Integer", goType: "int32"},
	"BigInt":    {tag: "types.BigInt", codec: "codec.BigInt", goType: "int64"},
	"Float":     {tag: "types.Float", codec: "codec.Float", goType: "float32"},
	"Double":    {tag: "types.Double", codec: "codec.Double", goType: "float64"},
	"VarChar":   {tag: "types.VarChar", codec: "codec.VarChar", goType: "string"},
	"Text":      {tag: "types.Text", codec: "codec.Text", goType: "string"},
	"Bool":      {tag: "types.Bool", codec: "codec.Bool", goType: "bool"},
	"Timestamp": {tag: "types.Timestamp", codec: "codec.Timestamp", goType: "time.Time", imp: "time"},
	"Binary":    {tag: "types.Binary", codec: "codec.Binary", goType: "[]byte"},
	"Uuid":      {tag: "types.Uuid", codec: "codec.UUID", goType: "uuid.UUID", imp: "github.com/google/uuid"},
}

// resolveType 把 Nullable<X> 这样的写法解析为类型标记、编解码器和宿主类型
func resolveType(name string) (info typeInfo, nullable bool, err error) {
	name = strings.TrimSpace(name)
	if inner, ok := strings.CutPrefix(name, "Nullable<"); ok {
		inner, ok = strings.CutSuffix(inner, ">")
		if !ok {
			return typeInfo{}, false, fmt.Errorf("malformed type %q", name)
		}
		base, nested, err := resolveType(inner)
		if err != nil {
			return typeInfo{}, false, err
		}
		if nested {
			return typeInfo{}, false, fmt.Errorf("type %q: nullable cannot be nested", name)
		}
		return typeInfo{
			tag:    "types.Nullable[" + base.tag + "]",
			codec:  "codec.Optional(" + base.codec + ")",
			goType: "sql.Null[" + base.goType + "]",
			imp:    base.imp,
		}, true, nil
	}
	info, ok := knownTypes[name]
	if !ok {
		return typeInfo{}, false, fmt.Errorf("unknown type %q", name)
	}
	return info, false, nil
}
