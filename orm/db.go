package orm

import (
	"database/sql"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/fyerfyer/fyer-typedsql/orm/backend"
	"github.com/fyerfyer/fyer-typedsql/orm/internal/ferr"
)

// DB 执行协作方：持有数据库连接、后端和中间件链
type DB struct {
	sqlDB       *sql.DB
	backend     backend.Backend
	handler     Handler
	middlewares []Middleware
}

// DBOption 定义配置项
type DBOption func(*DB) error

// Open 使用已有的连接
func Open(sqlDB *sql.DB, backendName string, opts ...DBOption) (*DB, error) {
	if sqlDB == nil {
		return nil, ferr.ErrInvalidConnection
	}
	b, err := backend.Get(backendName)
	if err != nil {
		return nil, err
	}
	db := &DB{
		sqlDB:   sqlDB,
		backend: b,
	}
	for _, opt := range opts {
		if err = opt(db); err != nil {
			return nil, err
		}
	}
	db.handler = BuildChain(&CoreHandler{db: db}, db.middlewares)
	return db, nil
}

// OpenDB 根据后端选择驱动并打开连接
func OpenDB(backendName string, dsn string, opts ...DBOption) (*DB, error) {
	driverName, dsn, err := driverFor(backendName, dsn)
	if err != nil {
		return nil, err
	}
	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	db, err := Open(sqlDB, backendName, opts...)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// driverFor 行值以文本形式交给编解码器，所以 MySQL 需要关闭 parseTime
func driverFor(backendName string, dsn string) (string, string, error) {
	switch backendName {
	case backend.PostgresName:
		return "pgx", dsn, nil
	case backend.MysqlName:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", "", err
		}
		cfg.ParseTime = false
		cfg.InterpolateParams = false
		return "mysql", cfg.FormatDSN(), nil
	case backend.SqliteName:
		return "sqlite3", dsn, nil
	default:
		return "", "", ferr.ErrInvalidBackend(backendName)
	}
}

// WithMiddlewares 注册中间件，先注册的先执行
func WithMiddlewares(ms ...Middleware) DBOption {
	return func(db *DB) error {
		db.middlewares = append(db.middlewares, ms...)
		return nil
	}
}

// WithBackend 使用自定义的后端实例，例如注册了自定义类型的后端
func WithBackend(b backend.Backend) DBOption {
	return func(db *DB) error {
		if b == nil {
			return ferr.ErrInvalidBackend(b)
		}
		db.backend = b
		return nil
	}
}

// Use 在已有的中间件之后追加中间件，并重新构建调用链
func (db *DB) Use(ms ...Middleware) {
	db.middlewares = append(db.middlewares, ms...)
	db.handler = BuildChain(&CoreHandler{db: db}, db.middlewares)
}

func (db *DB) Backend() backend.Backend {
	return db.backend
}

func (db *DB) Close() error {
	return db.sqlDB.Close()
}
