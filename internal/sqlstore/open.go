package sqlstore

import (
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/raphaelgruber/dbmcp-go/internal/db"
)

const defaultMySQLPort = "3306"

// Credentials identify a relational database. Driver may be a Go driver name
// (mysql, pgx, postgres, sqlite) or a JDBC driver class; when empty or
// unrecognized it is inferred from URL.
type Credentials struct {
	Driver   string
	URL      string
	Username string
	Password string
}

// ResolveDialect picks the dialect for the given driver name and URL.
func ResolveDialect(driver, rawURL string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "mysql", "com.mysql.cj.jdbc.driver", "com.mysql.jdbc.driver":
		return MySQL, nil
	case "pgx", "postgres", "postgresql", "org.postgresql.driver":
		return Postgres, nil
	case "sqlite", "sqlite3", "org.sqlite.jdbc":
		return SQLite, nil
	}
	return inferDialect(rawURL)
}

func inferDialect(rawURL string) (Dialect, error) {
	u := strings.ToLower(strings.TrimSpace(rawURL))
	switch {
	case strings.HasPrefix(u, "jdbc:mysql:"), strings.HasPrefix(u, "jdbc:mariadb:"), strings.HasPrefix(u, "mysql://"):
		return MySQL, nil
	case strings.HasPrefix(u, "jdbc:postgresql:"), strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"):
		return Postgres, nil
	case strings.HasPrefix(u, "jdbc:sqlite:"), strings.HasPrefix(u, "sqlite:"), strings.HasPrefix(u, "file:"),
		strings.HasSuffix(u, ".db"), strings.HasSuffix(u, ".sqlite"), u == ":memory:":
		return SQLite, nil
	case strings.HasPrefix(u, "jdbc:"):
		return Dialect{}, fmt.Errorf("%w: %s", db.ErrUnsupportedDriver, strings.SplitN(u, ":", 3)[1])
	}
	return MySQL, nil
}

// Open creates a pool for c without touching the network.
func Open(c Credentials) (*Pool, error) {
	dialect, err := ResolveDialect(c.Driver, c.URL)
	if err != nil {
		return nil, err
	}

	var sqlDB *sql.DB
	switch dialect.Name {
	case MySQL.Name:
		cfg, err := mysqlConfig(c.URL, c.Username, c.Password)
		if err != nil {
			return nil, err
		}
		connector, err := mysql.NewConnector(cfg)
		if err != nil {
			return nil, fmt.Errorf("mysql connector: %w", err)
		}
		sqlDB = sql.OpenDB(connector)
	case Postgres.Name:
		cfg, err := pgx.ParseConfig(strings.TrimPrefix(strings.TrimSpace(c.URL), "jdbc:"))
		if err != nil {
			return nil, fmt.Errorf("parse postgres url: %w", err)
		}
		if c.Username != "" {
			cfg.User = c.Username
		}
		if c.Password != "" {
			cfg.Password = c.Password
		}
		sqlDB = stdlib.OpenDB(*cfg)
	case SQLite.Name:
		sqlDB, err = sql.Open("sqlite", sqlitePath(c.URL))
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
	}

	return &Pool{DB: sqlDB, Dialect: dialect}, nil
}

// mysqlConfig accepts both JDBC style URLs (jdbc:mysql://host:port/db) and
// native go-sql-driver DSNs (user:pass@tcp(host:port)/db). JDBC query
// parameters are dropped since the driver would forward them as session
// variables.
func mysqlConfig(rawURL, user, password string) (*mysql.Config, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(rawURL), "jdbc:")
	lower := strings.ToLower(trimmed)

	var cfg *mysql.Config
	if strings.HasPrefix(lower, "mysql://") || strings.HasPrefix(lower, "mariadb://") {
		u, err := url.Parse(trimmed)
		if err != nil {
			return nil, fmt.Errorf("parse mysql url: %w", err)
		}
		cfg = mysql.NewConfig()
		cfg.Net = "tcp"
		host := u.Hostname()
		if host == "" {
			host = "127.0.0.1"
		}
		port := u.Port()
		if port == "" {
			port = defaultMySQLPort
		}
		cfg.Addr = net.JoinHostPort(host, port)
		cfg.DBName = strings.TrimPrefix(u.Path, "/")
		if u.User != nil {
			cfg.User = u.User.Username()
			cfg.Passwd, _ = u.User.Password()
		}
		q := u.Query()
		if v := q.Get("user"); v != "" {
			cfg.User = v
		}
		if v := q.Get("password"); v != "" {
			cfg.Passwd = v
		}
	} else {
		var err error
		cfg, err = mysql.ParseDSN(trimmed)
		if err != nil {
			return nil, fmt.Errorf("parse mysql dsn: %w", err)
		}
	}

	if user != "" {
		cfg.User = user
	}
	if password != "" {
		cfg.Passwd = password
	}
	cfg.ParseTime = true
	return cfg, nil
}

func sqlitePath(rawURL string) string {
	u := strings.TrimSpace(rawURL)
	for _, prefix := range []string{"jdbc:sqlite:", "sqlite://", "sqlite:"} {
		if len(u) >= len(prefix) && strings.EqualFold(u[:len(prefix)], prefix) {
			return u[len(prefix):]
		}
	}
	return u
}

// Pool is the handle held by the store's connection manager.
type Pool struct {
	DB      *sql.DB
	Dialect Dialect
}

// Close closes the underlying database. Queries already started are allowed
// to finish.
func (p *Pool) Close() error {
	return p.DB.Close()
}
