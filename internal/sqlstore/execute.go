package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/raphaelgruber/dbmcp-go/internal/response"
)

// Kind is the execution path chosen for a SQL statement.
type Kind string

const (
	KindQuery  Kind = "query"
	KindUpdate Kind = "update"
)

// Classify returns KindQuery for statements starting with SELECT (any case,
// leading whitespace ignored) and KindUpdate for everything else.
func Classify(stmt string) Kind {
	trimmed := strings.TrimSpace(stmt)
	if len(trimmed) >= len("select") && strings.EqualFold(trimmed[:len("select")], "select") {
		return KindQuery
	}
	return KindUpdate
}

// QueryResult is returned for the read path.
type QueryResult struct {
	Columns  []string         `json:"columns"`
	Data     []map[string]any `json:"data"`
	RowCount int              `json:"rowCount"`
	Type     Kind             `json:"type"`
}

// UpdateResult is returned for the write path.
type UpdateResult struct {
	AffectedRows int64 `json:"affectedRows"`
	Type         Kind  `json:"type"`
}

// Execute runs stmt on a borrowed connection and returns a *QueryResult or an
// *UpdateResult. Any backend error maps to SQLExecutionError.
func (s *Store) Execute(ctx context.Context, stmt string) (any, error) {
	conn, dialect, release, err := s.session(ctx, response.SQLExecutionError)
	if err != nil {
		return nil, err
	}
	defer release()

	stmt = strings.TrimSpace(stmt)
	kind := Classify(stmt)

	var result any
	switch kind {
	case KindQuery:
		result, err = runQuery(ctx, conn, stmt)
	default:
		result, err = runUpdate(ctx, conn, stmt)
	}
	if err != nil {
		s.logger.Error("sql execution failed", "dialect", dialect.Name, "kind", kind, "error", err)
		return nil, response.Fail(response.SQLExecutionError, err)
	}
	return result, nil
}

func runQuery(ctx context.Context, conn *sql.Conn, stmt string) (*QueryResult, error) {
	rows, err := conn.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	result := &QueryResult{
		Columns: columns,
		Data:    make([]map[string]any, 0),
		Type:    KindQuery,
	}

	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(map[string]any, len(columns))
		// Duplicate labels share one key; the rightmost column wins.
		for i, name := range columns {
			row[name] = normalize(values[i])
		}
		result.Data = append(result.Data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	result.RowCount = len(result.Data)
	return result, nil
}

func runUpdate(ctx context.Context, conn *sql.Conn, stmt string) (*UpdateResult, error) {
	res, err := conn.ExecContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("exec: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	return &UpdateResult{AffectedRows: affected, Type: KindUpdate}, nil
}

// normalize keeps driver values as decoded, except text delivered as bytes.
func normalize(v any) any {
	if b, ok := v.([]byte); ok && utf8.Valid(b) {
		return string(b)
	}
	return v
}
