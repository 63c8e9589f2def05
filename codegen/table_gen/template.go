package table_gen

const tablesTemplate = `// Code generated by tablegen. DO NOT EDIT.

package {{.Package}}

import (
{{- range .Imports}}
	"{{.}}"
{{- end}}
)
{{range $t := .Tables}}
// {{$t.Marker}} 表 {{$t.Name}} 的标记类型
type {{$t.Marker}} struct{}

var {{$t.Var}} = orm.NewTable[{{$t.Marker}}]({{printf "%q" $t.Name}}{{if $t.PrimaryKey}}, orm.WithPrimaryKey({{printf "%q" $t.PrimaryKey}}){{end}})

var (
{{- range $t.Columns}}
	{{.Var}} = orm.{{if .NoSelect}}NewNoSelectColumn{{else}}NewColumn{{end}}[{{.Tag}}]({{$t.Var}}, {{printf "%q" .Name}})
{{- end}}
)
{{if $t.Selectable}}
// {{$t.Row}} 表 {{$t.Name}} 的一行
type {{$t.Row}} struct {
{{- range $t.Selectable}}
	{{.Field}} {{.GoType}}
{{- end}}
}

// {{$t.Reader}} 读取 orm.From({{$t.Var}}) 的结果
var {{$t.Reader}} = orm.Record({{$t.Var}},
{{- range $t.Selectable}}
	orm.FieldOf({{.Var}}, {{.Codec}}, func(r *{{$t.Row}}, v {{.GoType}}) { r.{{.Field}} = v }),
{{- end}}
)
{{end}}
{{- end}}
{{- if .Relations}}
var (
{{- range .Relations}}
	{{.Var}} = orm.{{if .Nullable}}NullableForeignKey{{else}}ForeignKey{{end}}({{.FkVar}}, {{.PkVar}})
{{- end}}
)
{{end}}
{{- range .Through}}
// {{.Func}} 按 {{.Chain}} 的顺序连接
func {{.Func}}[K orm.JoinKind](kind K) {{.Type}} {
	return {{.Expr}}
}
{{end}}`
