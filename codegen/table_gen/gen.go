package table_gen

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/fyerfyer/fyer-typedsql/orm/utils"
)

const (
	ormImport   = "github.com/fyerfyer/fyer-typedsql/orm"
	typesImport = "github.com/fyerfyer/fyer-typedsql/orm/types"
	codecImport = "github.com/fyerfyer/fyer-typedsql/orm/codec"
)

type columnData struct {
	Name     string
	Var      string
	Field    string
	Tag      string
	Codec    string
	GoType   string
	NoSelect bool
	nullable bool
	baseTag  string
}

type tableData struct {
	Name       string
	PrimaryKey string
	Marker     string
	Var        string
	Row        string
	Reader     string
	Columns    []*columnData
	Selectable []*columnData
}

type relationData struct {
	Var      string
	Nullable bool
	FkVar    string
	PkVar    string
}

type throughData struct {
	Func  string
	Chain string
	Type  string
	Expr  string
}

type fileData struct {
	Package   string
	Imports   []string
	Tables    []*tableData
	Relations []*relationData
	Through   []*throughData
}

// Generate 根据表结构描述生成 Go 源码
func Generate(s *Schema) ([]byte, error) {
	data, err := buildData(s)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("tables").Parse(tablesTemplate)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err = tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template error: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated code error: %w", err)
	}
	return src, nil
}

// GenerateFile 读取 inputFile，把生成的代码写入 outputDir/<package>.gen.go
func GenerateFile(inputFile string, outputDir string, pkg string) (string, error) {
	s, err := ParseFile(inputFile)
	if err != nil {
		return "", err
	}
	if pkg != "" {
		s.Package = pkg
	}
	if s.Package == "" {
		s.Package = filepath.Base(filepath.Clean(outputDir))
	}

	src, err := Generate(s)
	if err != nil {
		return "", err
	}

	if err = os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	filePath := filepath.Join(outputDir, utils.CamelToSnake(s.Package)+".gen.go")
	if err = os.WriteFile(filePath, src, 0644); err != nil {
		return "", err
	}
	return filePath, nil
}

func buildData(s *Schema) (*fileData, error) {
	if s.Package == "" {
		return nil, fmt.Errorf("package name is required")
	}

	imports := map[string]struct{}{ormImport: {}}
	data := &fileData{Package: s.Package}
	tables := make(map[string]*tableData, len(s.Tables))

	for _, t := range s.Tables {
		if t.Name == "" {
			return nil, fmt.Errorf("table name is required")
		}
		if _, ok := tables[t.Name]; ok {
			return nil, fmt.Errorf("duplicate table %q", t.Name)
		}
		name := utils.SnakeToCamel(t.Name)
		td := &tableData{
			Name:       t.Name,
			PrimaryKey: t.PrimaryKey,
			Marker:     name + "Table",
			Var:        name,
			Row:        name + "Row",
			Reader:     name + "Record",
		}

		seen := make(map[string]struct{})
		addColumn := func(c Column, noSelect bool) error {
			if _, ok := seen[c.Name]; ok {
				return fmt.Errorf("table %q: duplicate column %q", t.Name, c.Name)
			}
			seen[c.Name] = struct{}{}
			info, nullable, err := resolveType(c.Type)
			if err != nil {
				return fmt.Errorf("table %q column %q: %w", t.Name, c.Name, err)
			}
			imports[typesImport] = struct{}{}
			if info.imp != "" {
				imports[info.imp] = struct{}{}
			}
			field := utils.SnakeToCamel(c.Name)
			cd := &columnData{
				Name:     c.Name,
				Var:      name + field,
				Field:    field,
				Tag:      info.tag,
				Codec:    info.codec,
				GoType:   info.goType,
				NoSelect: noSelect,
				nullable: nullable,
				baseTag:  strings.TrimSuffix(strings.TrimPrefix(info.tag, "types.Nullable["), "]"),
			}
			td.Columns = append(td.Columns, cd)
			if !noSelect {
				td.Selectable = append(td.Selectable, cd)
				imports[codecImport] = struct{}{}
				if nullable {
					imports["database/sql"] = struct{}{}
				}
			}
			return nil
		}
		for _, c := range t.Columns {
			if err := addColumn(c, false); err != nil {
				return nil, err
			}
		}
		for _, c := range t.NoSelect {
			if err := addColumn(c, true); err != nil {
				return nil, err
			}
		}

		pk := t.PrimaryKey
		if pk == "" {
			pk = "id"
		}
		if _, ok := seen[pk]; !ok {
			return nil, fmt.Errorf("table %q: primary key %q is not a column", t.Name, pk)
		}

		tables[t.Name] = td
		data.Tables = append(data.Tables, td)
	}

	relations := make(map[[2]string]*relationData)
	for _, j := range s.Joinables {
		rel, err := buildRelation(tables, j)
		if err != nil {
			return nil, err
		}
		key := [2]string{j.Child, j.Parent}
		if _, ok := relations[key]; ok {
			return nil, fmt.Errorf("duplicate relation from %q to %q", j.Child, j.Parent)
		}
		relations[key] = rel
		data.Relations = append(data.Relations, rel)
	}

	for _, chain := range s.Through {
		td, err := buildThrough(tables, relations, chain)
		if err != nil {
			return nil, err
		}
		data.Through = append(data.Through, td)
	}

	if err := checkIdentifiers(data); err != nil {
		return nil, err
	}

	for imp := range imports {
		data.Imports = append(data.Imports, imp)
	}
	slices.Sort(data.Imports)
	return data, nil
}

func findColumn(t *tableData, name string) (*columnData, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

func buildRelation(tables map[string]*tableData, j Joinable) (*relationData, error) {
	child, ok := tables[j.Child]
	if !ok {
		return nil, fmt.Errorf("joinable: unknown child table %q", j.Child)
	}
	parent, ok := tables[j.Parent]
	if !ok {
		return nil, fmt.Errorf("joinable: unknown parent table %q", j.Parent)
	}
	fk, ok := findColumn(child, j.Column)
	if !ok {
		return nil, fmt.Errorf("joinable: table %q has no column %q", j.Child, j.Column)
	}
	pkName := parent.PrimaryKey
	if pkName == "" {
		pkName = "id"
	}
	pk, _ := findColumn(parent, pkName)
	if pk.nullable {
		return nil, fmt.Errorf("joinable: primary key %s.%s must not be nullable", j.Parent, pkName)
	}
	if fk.baseTag != pk.baseTag {
		return nil, fmt.Errorf("joinable: %s.%s (%s) does not match %s.%s (%s)",
			j.Child, j.Column, fk.Tag, j.Parent, pkName, pk.Tag)
	}
	return &relationData{
		Var:      child.Var + "To" + parent.Var,
		Nullable: fk.nullable,
		FkVar:    fk.Var,
		PkVar:    pk.Var,
	}, nil
}

// hop 连接相邻两张表，外键在哪一侧决定用 ParentJoin 还是 ChildJoin
func hop(relations map[[2]string]*relationData, from, to string) (string, error) {
	if rel, ok := relations[[2]string{to, from}]; ok {
		return "orm.ParentJoin(" + rel.Var + ", kind)", nil
	}
	if rel, ok := relations[[2]string{from, to}]; ok {
		return "orm.ChildJoin(" + rel.Var + ", kind)", nil
	}
	return "", fmt.Errorf("through: no relation between %q and %q", from, to)
}

func buildThrough(tables map[string]*tableData, relations map[[2]string]*relationData, chain []string) (*throughData, error) {
	if len(chain) < 3 {
		return nil, fmt.Errorf("through: chain %v needs at least three tables", chain)
	}
	names := make([]string, 0, len(chain))
	for _, name := range chain {
		t, ok := tables[name]
		if !ok {
			return nil, fmt.Errorf("through: unknown table %q", name)
		}
		names = append(names, t.Var)
	}

	typ := "orm.Join[" + tables[chain[0]].Marker + ", " + tables[chain[1]].Marker + ", K]"
	expr, err := hop(relations, chain[0], chain[1])
	if err != nil {
		return nil, err
	}
	for i := 2; i < len(chain); i++ {
		next, err := hop(relations, chain[i-1], chain[i])
		if err != nil {
			return nil, err
		}
		typ = "orm.Join[" + typ + ", " + tables[chain[i]].Marker + ", K]"
		expr = "orm.Through(" + expr + ", " + next + ")"
	}

	return &throughData{
		Func:  "Join" + strings.Join(names, ""),
		Chain: strings.Join(chain, " -> "),
		Type:  typ,
		Expr:  expr,
	}, nil
}

// checkIdentifiers 生成的包级标识符不能重名
func checkIdentifiers(data *fileData) error {
	seen := make(map[string]struct{})
	add := func(name string) error {
		if _, ok := seen[name]; ok {
			return fmt.Errorf("generated identifier %s is declared twice", name)
		}
		seen[name] = struct{}{}
		return nil
	}
	for _, t := range data.Tables {
		names := []string{t.Marker, t.Var}
		if len(t.Selectable) > 0 {
			names = append(names, t.Row, t.Reader)
		}
		for _, c := range t.Columns {
			names = append(names, c.Var)
		}
		for _, name := range names {
			if err := add(name); err != nil {
				return err
			}
		}
	}
	for _, r := range data.Relations {
		if err := add(r.Var); err != nil {
			return err
		}
	}
	for _, t := range data.Through {
		if err := add(t.Func); err != nil {
			return err
		}
	}
	return nil
}
