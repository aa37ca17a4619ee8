// Package response provides the fixed error taxonomy and the JSON envelope
// returned by every tool.
package response

// Code identifies one entry of the error taxonomy.
// The integer values are part of the wire contract and must not change.
type Code int

// Taxonomy entries. The Redis tools reuse the table oriented codes for keys.
const (
	Success                Code = 200
	Internal               Code = 500
	DBConnectionError      Code = 5001
	JSONSerializationError Code = 5002
	SQLExecutionError      Code = 5003
	TableNotFound          Code = 5004
	TableQueryError        Code = 5005
	TableNamesQueryError   Code = 5006
	NoTablesFound          Code = 5007
)

var messages = map[Code]string{
	Success:                "success",
	Internal:               "internal error",
	DBConnectionError:      "database connection is not initialized, call the init tool first",
	JSONSerializationError: "failed to serialize JSON",
	SQLExecutionError:      "SQL execution failed",
	TableNotFound:          "table does not exist or has no columns",
	TableQueryError:        "failed to query table structure",
	TableNamesQueryError:   "failed to query table names",
	NoTablesFound:          "no tables found in the database",
}

// Message returns the human readable message for the code.
// Codes outside the taxonomy report the Internal message.
func (c Code) Message() string {
	if msg, ok := messages[c]; ok {
		return msg
	}
	return messages[Internal]
}

// Known reports whether c is part of the taxonomy.
func (c Code) Known() bool {
	_, ok := messages[c]
	return ok
}

// Codes returns every taxonomy entry in ascending order.
func Codes() []Code {
	return []Code{
		Success,
		Internal,
		DBConnectionError,
		JSONSerializationError,
		SQLExecutionError,
		TableNotFound,
		TableQueryError,
		TableNamesQueryError,
		NoTablesFound,
	}
}
