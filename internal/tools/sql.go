package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/raphaelgruber/dbmcp-go/internal/sqlstore"
)

const sqlInitialized = "database connection initialized"

// InitDatabaseInput defines the input schema for initDatabaseConnection.
type InitDatabaseInput struct {
	DriverClassName string `json:"driverClassName,omitempty" jsonschema:"Driver name (mysql, postgres, sqlite) or JDBC driver class; inferred from the URL when empty"`
	URL             string `json:"url" jsonschema:"Database URL, JDBC style (jdbc:mysql://host:3306/db) or native DSN"`
	Username        string `json:"username" jsonschema:"Database user name"`
	Password        string `json:"password" jsonschema:"Database password"`
}

// TableNameInput defines the input schema for getTableStructure.
type TableNameInput struct {
	TableName string `json:"tableName" jsonschema:"Name of the table to describe"`
}

// ExecuteSQLInput defines the input schema for executeSQL.
type ExecuteSQLInput struct {
	SQL string `json:"sql" jsonschema:"SQL statement; statements starting with SELECT return rows, everything else returns affected rows"`
}

// NewInitDatabaseHandler creates the initDatabaseConnection handler.
func NewInitDatabaseHandler(deps *Dependencies) mcp.ToolHandlerFor[InitDatabaseInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input InitDatabaseInput) (*mcp.CallToolResult, any, error) {
		err := deps.SQL.Init(ctx, sqlstore.Credentials{
			Driver:   input.DriverClassName,
			URL:      input.URL,
			Username: input.Username,
			Password: input.Password,
		})
		return deps.envelope("initDatabaseConnection", sqlInitialized, err), nil, nil
	}
}

// NewListTablesHandler creates the getAllTableNames handler.
func NewListTablesHandler(deps *Dependencies) mcp.ToolHandlerFor[struct{}, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
		tables, err := deps.SQL.ListTables(ctx)
		return deps.envelope("getAllTableNames", tables, err), nil, nil
	}
}

// NewDescribeTableHandler creates the getTableStructure handler.
func NewDescribeTableHandler(deps *Dependencies) mcp.ToolHandlerFor[TableNameInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input TableNameInput) (*mcp.CallToolResult, any, error) {
		table, err := deps.SQL.DescribeTable(ctx, input.TableName)
		return deps.envelope("getTableStructure", table, err), nil, nil
	}
}

// NewExecuteSQLHandler creates the executeSQL handler.
func NewExecuteSQLHandler(deps *Dependencies) mcp.ToolHandlerFor[ExecuteSQLInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ExecuteSQLInput) (*mcp.CallToolResult, any, error) {
		result, err := deps.SQL.Execute(ctx, input.SQL)
		return deps.envelope("executeSQL", result, err), nil, nil
	}
}
