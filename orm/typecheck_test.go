package orm

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"
)

const snippetTemplate = `package main

import (
	"context"

	"github.com/fyerfyer/fyer-typedsql/orm"
	"github.com/fyerfyer/fyer-typedsql/orm/codec"
	"github.com/fyerfyer/fyer-typedsql/orm/types"
)

var (
	_ = context.Background
	_ = codec.VarChar
)

type usersTable struct{}
type postsTable struct{}

var (
	users        = orm.NewTable[usersTable]("users")
	usersID      = orm.NewColumn[types.Integer](users, "id")
	usersName    = orm.NewColumn[types.VarChar](users, "name")
	posts        = orm.NewTable[postsTable]("posts")
	postsID      = orm.NewColumn[types.Integer](posts, "id")
	postsUserID  = orm.NewColumn[types.Integer](posts, "user_id")
	postsTitle   = orm.NewColumn[types.VarChar](posts, "title")
	postsToUsers = orm.ForeignKey(postsUserID, usersID)
)

func main() {
%s
}
`

// typeCheck 在模块内的临时目录中加载一段代码，返回类型检查错误
func typeCheck(t *testing.T, body string) []packages.Error {
	t.Helper()
	dir, err := os.MkdirTemp(".", "typecheck_")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	src := fmt.Sprintf(snippetTemplate, body)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte(src), 0644))

	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	pkgs, err := packages.Load(&packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo,
		Dir:  abs,
	}, ".")
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	return pkgs[0].Errors
}

func skipTypeCheck(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("type check tests load packages with the go command")
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not found")
	}
}

func TestTypeCheck_Accepts(t *testing.T) {
	skipTypeCheck(t)

	errs := typeCheck(t, `
	_ = orm.From(users)
	_ = orm.Select(users, usersName).Where(orm.EqVal(usersID, orm.Int(1)))
	_ = orm.Select(users, orm.AddVal(usersID, orm.Int(1)))
	_ = orm.SelectAggregate(users, orm.Count(usersID))
	_ = orm.EqVal(usersID, orm.Bind(codec.Integer, int32(7)))
	_ = orm.ReadPair(orm.Scalar(codec.Integer), orm.Scalar(codec.Optional(codec.VarChar)))

	var _ orm.NonAggregate = orm.AddVal(usersID, orm.Int(1))
	var _ orm.SelectableExpression[usersTable, types.VarChar] = usersName

	inner := orm.ParentJoin(postsToUsers, orm.Inner{})
	_ = orm.Select(inner, orm.Tuple2(orm.Left(inner, usersName), orm.Right(inner, postsTitle)))

	outer := orm.ParentJoin(postsToUsers, orm.LeftOuter{})
	var title orm.Expr[orm.Join[usersTable, postsTable, orm.LeftOuter], types.Nullable[types.VarChar]] = orm.OuterRight(outer, postsTitle)
	_ = orm.Select(outer, title)

	var db *orm.DB
	_, _ = orm.Load(context.Background(), db, orm.Select(users, usersID), orm.Scalar(codec.Integer))
	_, _ = orm.Load(context.Background(), db, orm.Select(outer, title), orm.Scalar(codec.Optional(codec.VarChar)))
`)
	for _, e := range errs {
		t.Error(e.Error())
	}
}

func TestTypeCheck_Rejects(t *testing.T) {
	skipTypeCheck(t)

	testCases := []struct {
		name string
		body string
		// 期望的类型检查错误片段
		want string
	}{
		{
			name: "column of another table",
			body: `_ = orm.Select(users, postsTitle)`,
			want: "does not satisfy orm.Source",
		},
		{
			name: "mixing query sources",
			body: `_ = orm.Eq(usersID, postsID)`,
			want: "does not match",
		},
		{
			name: "sql type mismatch",
			body: `_ = orm.Eq(usersID, usersName)`,
			want: "does not match",
		},
		{
			name: "bound value of wrong type",
			body: `_ = orm.EqVal(usersID, orm.Str("1"))`,
			want: "does not match",
		},
		{
			name: "arithmetic on text",
			body: `_ = orm.Add(usersName, usersName)`,
			want: "does not satisfy types.Numeric",
		},
		{
			name: "unlifted column in join",
			body: `
	j := orm.ParentJoin(postsToUsers, orm.Inner{})
	_ = orm.Select(j, postsTitle)`,
			want: "does not satisfy orm.Source",
		},
		{
			name: "non nullable lift from left outer join",
			body: `
	j := orm.ParentJoin(postsToUsers, orm.LeftOuter{})
	_ = orm.Right(j, postsTitle)`,
			want: "does not match",
		},
		{
			name: "outer column typed as not null",
			body: `
	j := orm.ParentJoin(postsToUsers, orm.LeftOuter{})
	var _ orm.Expr[orm.Join[usersTable, postsTable, orm.LeftOuter], types.VarChar] = orm.OuterRight(j, postsTitle)`,
			want: "cannot use",
		},
		{
			name: "aggregate is not non aggregate",
			body: `var _ orm.NonAggregate = orm.Count(usersID)`,
			want: "missing method nonAggregate",
		},
		{
			name: "aggregate in order by",
			body: `_ = orm.Select(users, usersID).OrderBy(orm.Asc(orm.Count(usersID)))`,
			want: "does not match",
		},
		{
			name: "aggregate in where",
			body: `_ = orm.From(users).Where(orm.GtVal(orm.Count(usersID), orm.BigInt(1)))`,
			want: "does not match",
		},
		{
			name: "nested nullable",
			body: `var _ types.Nullable[types.Nullable[types.Integer]]`,
			want: "does not satisfy types.NotNull",
		},
		{
			name: "reader does not match statement",
			body: `
	var db *orm.DB
	_, _ = orm.Load(context.Background(), db, orm.Select(users, usersID), orm.Scalar(codec.VarChar))`,
			want: "does not match",
		},
		{
			name: "non null reader for nullable column",
			body: `
	j := orm.ParentJoin(postsToUsers, orm.LeftOuter{})
	var db *orm.DB
	_, _ = orm.Load(context.Background(), db, orm.Select(j, orm.OuterRight(j, postsTitle)), orm.Scalar(codec.VarChar))`,
			want: "does not match",
		},
		{
			name: "codec of another sql type",
			body: `_ = orm.EqVal(usersID, orm.Bind(codec.VarChar, "7"))`,
			want: "does not match",
		},
		{
			name: "codec assigned across sql types",
			body: `var _ codec.Codec[types.Integer, string] = codec.VarChar`,
			want: "cannot use",
		},
		{
			name: "reader assigned to nullable row type",
			body: `var _ orm.RowReader[types.Nullable[types.VarChar], string] = orm.Scalar(codec.VarChar)`,
			want: "cannot use",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			errs := typeCheck(t, tc.body)
			require.NotEmpty(t, errs)
			msgs := make([]string, 0, len(errs))
			for _, e := range errs {
				// orm 自身必须能通过编译，错误只能来自这段代码
				require.NotContains(t, e.Msg, "could not import", e.Error())
				msgs = append(msgs, e.Msg)
			}
			assert.Contains(t, strings.Join(msgs, "\n"), tc.want)
		})
	}
}
