package orm

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/fyer-typedsql/orm/backend"
	"github.com/fyerfyer/fyer-typedsql/orm/codec"
	"github.com/fyerfyer/fyer-typedsql/orm/types"
)

func newMockDB(t *testing.T, backendName string) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db, err := Open(mockDB, backendName)
	require.NoError(t, err)
	return db, mock
}

func TestOpen(t *testing.T) {
	_, err := Open(nil, "postgres")
	assert.ErrorIs(t, err, ErrInvalidConnection)

	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	_, err = Open(mockDB, "oracle")
	assert.Error(t, err)

	db, err := Open(mockDB, "mysql", WithBackend(backend.NewPostgres()))
	require.NoError(t, err)
	assert.Equal(t, "postgres", db.Backend().Name())

	_, err = Open(mockDB, "mysql", WithBackend(nil))
	assert.Error(t, err)
}

func TestLoad_Arithmetic(t *testing.T) {
	testCases := []struct {
		name     string
		stmt     SelectStatement[usersTable, types.Integer]
		wantSQL  string
		wantArgs []driver.Value
		rows     []int
	}{
		{
			name:     "adding literal to column",
			stmt:     Select(users, AddVal(usersID, Int(1))),
			wantSQL:  `SELECT "users"."id" + $1 FROM "users"`,
			wantArgs: []driver.Value{"1"},
			rows:     []int{2, 3},
		},
		{
			name:     "adding column to column",
			stmt:     Select(users, Add(usersID, usersID)),
			wantSQL:  `SELECT "users"."id" + "users"."id" FROM "users"`,
			wantArgs: []driver.Value{},
			rows:     []int{2, 4},
		},
		{
			name:     "subtracting literal from column",
			stmt:     Select(users, SubVal(usersID, Int(1))),
			wantSQL:  `SELECT "users"."id" - $1 FROM "users"`,
			wantArgs: []driver.Value{"1"},
			rows:     []int{0, 1},
		},
		{
			name:     "dividing column",
			stmt:     Select(users, DivVal(usersID, Int(2))),
			wantSQL:  `SELECT "users"."id" / $1 FROM "users"`,
			wantArgs: []driver.Value{"2"},
			rows:     []int{0, 1},
		},
		{
			name:     "mix and match all numeric ops",
			stmt:     Select(users, SubVal(AddVal(DivVal(MulVal(usersID, Int(3)), Int(2)), Int(4)), Int(1))),
			wantSQL:  `SELECT "users"."id" * $1 / $2 + $3 - $4 FROM "users"`,
			wantArgs: []driver.Value{"3", "2", "4", "1"},
			rows:     []int{4, 6},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t, "postgres")

			rows := sqlmock.NewRows([]string{"?column?"})
			want := make([]int32, 0, len(tc.rows))
			for _, r := range tc.rows {
				rows.AddRow(r)
				want = append(want, int32(r))
			}
			exp := mock.ExpectQuery(tc.wantSQL)
			if len(tc.wantArgs) > 0 {
				exp = exp.WithArgs(tc.wantArgs...)
			}
			exp.WillReturnRows(rows)

			res, err := Load(context.Background(), db, tc.stmt, Scalar(codec.Integer))
			require.NoError(t, err)
			assert.Equal(t, want, res)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// TestLoad_SelectPlusOne 两行用户，SELECT id + 1 得到 [2, 3]
func TestLoad_SelectPlusOne(t *testing.T) {
	stmt := Select(users, AddVal(usersID, Int(1)))

	assert.Equal(t, "SELECT users.id + ? FROM users", DebugSQL(stmt))
	q, err := BuildQuery(pg, stmt)
	require.NoError(t, err)
	assert.Equal(t, []string{"Integer:1"}, args(q))

	db, mock := newMockDB(t, "postgres")
	mock.ExpectQuery(`SELECT "users"."id" + $1 FROM "users"`).
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(int64(2)).AddRow(int64(3)))

	res, err := Load(context.Background(), db, stmt, Scalar(codec.Integer))
	require.NoError(t, err)
	assert.Equal(t, []int32{2, 3}, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestLoad_LeftOuterJoin 没有文章的用户，posts.title 读作空值
func TestLoad_LeftOuterJoin(t *testing.T) {
	j := ParentJoin(postsToUsers, LeftOuter{})
	stmt := Select(j, Tuple2(Left(j, usersName), OuterRight(j, postsTitle))).OrderBy(Asc(Left(j, usersID)))
	assert.Equal(t, "Nullable<VarChar>", OuterRight(j, postsTitle).SqlType().Name())

	db, mock := newMockDB(t, "mysql")
	mock.ExpectQuery("SELECT `users`.`name`, `posts`.`title` FROM `users` LEFT OUTER JOIN `posts` ON `posts`.`user_id` = `users`.`id` ORDER BY `users`.`id` ASC").
		WillReturnRows(sqlmock.NewRows([]string{"name", "title"}).
			AddRow([]byte("Sean"), []byte("Hello")).
			AddRow([]byte("Tess"), nil))

	res, err := Load(context.Background(), db, stmt, ReadPair(Scalar(codec.VarChar), Scalar(codec.Optional(codec.VarChar))))
	require.NoError(t, err)
	assert.Equal(t, []Pair[string, sql.Null[string]]{
		{First: "Sean", Second: codec.Some("Hello")},
		{First: "Tess", Second: codec.None[string]()},
	}, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_Record(t *testing.T) {
	db, mock := newMockDB(t, "mysql")
	mock.ExpectQuery("SELECT `users`.`id`, `users`.`name`, `users`.`hair_color` FROM `users` WHERE `users`.`name` <> ?").
		WithArgs("Tess").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "hair_color"}).
			AddRow(int64(1), "Sean", nil).
			AddRow(int64(3), "", "black"))

	res, err := Load(context.Background(), db, From(users).Where(NotEqVal(usersName, Str("Tess"))), userRecord)
	require.NoError(t, err)
	assert.Equal(t, []user{
		{ID: 1, Name: "Sean"},
		{ID: 3, Name: "", HairColor: codec.Some("black")},
	}, res)
}

func TestLoad_TypedArgs(t *testing.T) {
	db, mock := newMockDB(t, "mysql")
	stmt := Select(users, usersName).Where(EqVal(AddVal(usersID, Int(1)), Int(3))).Limit(10)
	mock.ExpectQuery("SELECT `users`.`name` FROM `users` WHERE `users`.`id` + ? = ? LIMIT ?").
		WithArgs(int64(1), int64(3), int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Tess"))

	res, err := Load(context.Background(), db, stmt, Scalar(codec.VarChar))
	require.NoError(t, err)
	assert.Equal(t, []string{"Tess"}, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestLoad_PostgresBinary pgx 驱动把 bytea 列解码成 []byte 后再交给我们
func TestLoad_PostgresBinary(t *testing.T) {
	files := NewTable[filesTable]("files")
	data := NewColumn[types.Binary](files, "data")

	db, mock := newMockDB(t, "postgres")
	mock.ExpectQuery(`SELECT "files"."data" FROM "files"`).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).
			AddRow([]byte{0xde, 0xad}).
			AddRow([]byte{}).
			AddRow(nil))

	res, err := Load(context.Background(), db, Select(files, AsNullable(data)), Scalar(codec.Optional(codec.Binary)))
	require.NoError(t, err)
	assert.Equal(t, []sql.Null[[]byte]{
		codec.Some([]byte{0xde, 0xad}),
		codec.Some([]byte{}),
		codec.None[[]byte](),
	}, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_Errors(t *testing.T) {
	t.Run("unexpected null", func(t *testing.T) {
		db, mock := newMockDB(t, "postgres")
		mock.ExpectQuery(`SELECT "users"."name" FROM "users"`).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow(nil))

		_, err := Load(context.Background(), db, Select(users, usersName), Scalar(codec.VarChar))
		var une *UnexpectedNullError
		require.True(t, errors.As(err, &une))
		assert.Equal(t, 0, une.Index)
		assert.Equal(t, "name", une.Column)
	})

	t.Run("column count", func(t *testing.T) {
		db, mock := newMockDB(t, "postgres")
		mock.ExpectQuery(`SELECT "users"."name" FROM "users"`).
			WillReturnRows(sqlmock.NewRows([]string{"name", "extra"}).AddRow("a", "b"))

		_, err := Load(context.Background(), db, Select(users, usersName), Scalar(codec.VarChar))
		assert.Error(t, err)
	})

	t.Run("query error", func(t *testing.T) {
		db, mock := newMockDB(t, "postgres")
		mock.ExpectQuery(`SELECT "users"."name" FROM "users"`).
			WillReturnError(errors.New("connection reset"))

		_, err := Load(context.Background(), db, Select(users, usersName), Scalar(codec.VarChar))
		assert.EqualError(t, err, "connection reset")
	})

	t.Run("encode error", func(t *testing.T) {
		db, mock := newMockDB(t, "postgres")
		db.backend = backend.NewDebug()

		_, err := Load(context.Background(), db, Select(users, AddVal(usersID, Int(1))), Scalar(codec.Integer))
		assert.ErrorIs(t, err, ErrEncode)
		// 出错时不会执行任何查询
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("decode error", func(t *testing.T) {
		db, mock := newMockDB(t, "postgres")
		mock.ExpectQuery(`SELECT "users"."id" FROM "users"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("one"))

		_, err := Load(context.Background(), db, Select(users, usersID), Scalar(codec.Integer))
		assert.ErrorIs(t, err, ErrDecode)
	})
}

func TestFirst(t *testing.T) {
	db, mock := newMockDB(t, "postgres")
	stmt := Select(users, usersName).Where(EqVal(usersID, Int(1)))

	mock.ExpectQuery(`SELECT "users"."name" FROM "users" WHERE "users"."id" = $1 LIMIT $2`).
		WithArgs("1", "1").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Sean"))
	name, err := First(context.Background(), db, stmt, Scalar(codec.VarChar))
	require.NoError(t, err)
	assert.Equal(t, "Sean", name)

	mock.ExpectQuery(`SELECT "users"."name" FROM "users" WHERE "users"."id" = $1 LIMIT $2`).
		WithArgs("1", "1").
		WillReturnRows(sqlmock.NewRows([]string{"name"}))
	_, err = First(context.Background(), db, stmt, Scalar(codec.VarChar))
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestDriverFor(t *testing.T) {
	testCases := []struct {
		name       string
		backend    string
		dsn        string
		wantDriver string
		wantDSN    string
		wantErr    bool
	}{
		{
			name:       "postgres",
			backend:    "postgres",
			dsn:        "postgres://localhost:5432/test",
			wantDriver: "pgx",
			wantDSN:    "postgres://localhost:5432/test",
		},
		{
			name:       "sqlite",
			backend:    "sqlite",
			dsn:        "file::memory:",
			wantDriver: "sqlite3",
			wantDSN:    "file::memory:",
		},
		{
			name:    "invalid mysql dsn",
			backend: "mysql",
			dsn:     "not a dsn",
			wantErr: true,
		},
		{
			name:    "unknown backend",
			backend: "debug",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			driverName, dsn, err := driverFor(tc.backend, tc.dsn)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantDriver, driverName)
			assert.Equal(t, tc.wantDSN, dsn)
		})
	}
}

func TestDriverFor_Mysql(t *testing.T) {
	driverName, dsn, err := driverFor("mysql", "root:pass@tcp(localhost:3306)/test?parseTime=true&interpolateParams=true")
	require.NoError(t, err)
	assert.Equal(t, "mysql", driverName)
	assert.Contains(t, dsn, "root:pass@tcp(localhost:3306)/test")
	// 行值以文本形式读取，参数由驱动绑定
	assert.NotContains(t, dsn, "parseTime")
	assert.NotContains(t, dsn, "interpolateParams")
}

// TestSqlite 在真实的 SQLite 上执行，需要 cgo
func TestSqlite(t *testing.T) {
	db, err := OpenDB("sqlite", "file::memory:?cache=shared")
	require.NoError(t, err)
	defer db.Close()

	if err = db.sqlDB.Ping(); err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	db.sqlDB.SetMaxOpenConns(1)

	_, err = db.sqlDB.Exec(`
CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL, hair_color TEXT);
CREATE TABLE posts (id INTEGER PRIMARY KEY, user_id INTEGER NOT NULL, title TEXT NOT NULL, body TEXT);
INSERT INTO users (id, name, hair_color) VALUES (1, 'Sean', NULL), (2, 'Tess', 'black');
INSERT INTO posts (id, user_id, title) VALUES (1, 1, 'Hello');`)
	require.NoError(t, err)

	ctx := context.Background()
	ids, err := Load(ctx, db, Select(users, AddVal(usersID, Int(1))).OrderBy(Asc(usersID)), Scalar(codec.Integer))
	require.NoError(t, err)
	assert.Equal(t, []int32{2, 3}, ids)

	// 参数以整数绑定，和没有列亲和性的计算结果比较才会相等
	ids, err = Load(ctx, db, Select(users, usersID).Where(EqVal(AddVal(usersID, Int(1)), Int(3))), Scalar(codec.Integer))
	require.NoError(t, err)
	assert.Equal(t, []int32{2}, ids)

	j := ParentJoin(postsToUsers, LeftOuter{})
	titles, err := Load(ctx, db,
		Select(j, Tuple2(Left(j, usersName), OuterRight(j, postsTitle))).OrderBy(Asc(Left(j, usersID))),
		ReadPair(Scalar(codec.VarChar), Scalar(codec.Optional(codec.VarChar))))
	require.NoError(t, err)
	assert.Equal(t, []Pair[string, sql.Null[string]]{
		{First: "Sean", Second: codec.Some("Hello")},
		{First: "Tess", Second: codec.None[string]()},
	}, titles)

	all, err := Load(ctx, db, From(users).OrderBy(Desc(usersID)), userRecord)
	require.NoError(t, err)
	assert.Equal(t, []user{
		{ID: 2, Name: "Tess", HairColor: codec.Some("black")},
		{ID: 1, Name: "Sean"},
	}, all)
}
