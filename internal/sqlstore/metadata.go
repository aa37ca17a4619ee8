package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/raphaelgruber/dbmcp-go/internal/response"
)

// TableList is the result of ListTables.
type TableList struct {
	Tables []string `json:"tables"`
	Count  int      `json:"count"`
}

// Column describes one table column.
type Column struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
	Nullable bool   `json:"nullable"`
}

// Table is the result of DescribeTable.
type Table struct {
	TableName   string   `json:"tableName"`
	Columns     []Column `json:"columns"`
	PrimaryKeys []string `json:"primaryKeys,omitempty"`
}

// ListTables returns the base tables of the active catalog in the order the
// backend reports them. An empty catalog is reported as NoTablesFound.
func (s *Store) ListTables(ctx context.Context) (*TableList, error) {
	conn, dialect, release, err := s.session(ctx, response.TableNamesQueryError)
	if err != nil {
		return nil, err
	}
	defer release()

	tables, err := queryStrings(ctx, conn, dialect.TablesQuery)
	if err != nil {
		s.logger.Error("list tables failed", "dialect", dialect.Name, "error", err)
		return nil, response.Fail(response.TableNamesQueryError, err)
	}
	if len(tables) == 0 {
		return nil, response.Fail(response.NoTablesFound, nil)
	}

	s.logger.Debug("listed tables", "count", len(tables))
	return &TableList{Tables: tables, Count: len(tables)}, nil
}

// DescribeTable returns the columns of name and, when it has any, its
// primary key columns.
func (s *Store) DescribeTable(ctx context.Context, name string) (*Table, error) {
	conn, dialect, release, err := s.session(ctx, response.TableQueryError)
	if err != nil {
		return nil, err
	}
	defer release()

	columns, err := queryColumns(ctx, conn, dialect, name)
	if err != nil {
		s.logger.Error("describe table failed", "table", name, "error", err)
		return nil, response.Fail(response.TableQueryError, err)
	}
	if len(columns) == 0 {
		return nil, response.Fail(response.TableNotFound, nil)
	}

	primaryKeys, err := queryStrings(ctx, conn, dialect.PrimaryKeysQuery, name)
	if err != nil {
		s.logger.Error("primary key lookup failed", "table", name, "error", err)
		return nil, response.Fail(response.TableQueryError, err)
	}

	table := &Table{TableName: name, Columns: columns}
	if len(primaryKeys) > 0 {
		table.PrimaryKeys = primaryKeys
	}
	return table, nil
}

func queryColumns(ctx context.Context, conn *sql.Conn, dialect Dialect, table string) ([]Column, error) {
	rows, err := conn.QueryContext(ctx, dialect.ColumnsQuery, table)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []Column
	for rows.Next() {
		var (
			col      Column
			size     sql.NullInt64
			nullable sql.NullString
		)
		if err := rows.Scan(&col.Name, &col.Type, &size, &nullable); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		col.Size = size.Int64
		if col.Size == 0 {
			col.Size = declaredSize(col.Type)
		}
		col.Nullable = nullable.String == dialect.NullableSentinel
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}
	return columns, nil
}

// queryStrings runs a single column query and collects its values.
func queryStrings(ctx context.Context, conn *sql.Conn, query string, args ...any) ([]string, error) {
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// declaredSize extracts the length from a declared type such as VARCHAR(64)
// or DECIMAL(10,2).
func declaredSize(typ string) int64 {
	open := strings.IndexByte(typ, '(')
	if open < 0 {
		return 0
	}
	rest := typ[open+1:]
	if end := strings.IndexAny(rest, ",)"); end >= 0 {
		rest = rest[:end]
	}
	n, err := strconv.ParseInt(strings.TrimSpace(rest), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
