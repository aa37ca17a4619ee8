package sqlstore

// Dialect holds the metadata queries for one SQL backend. Columns queries
// return (name, type, size, nullable indicator) in ordinal order; the column
// is nullable when the indicator equals NullableSentinel.
type Dialect struct {
	Name             string
	TablesQuery      string
	ColumnsQuery     string
	PrimaryKeysQuery string
	NullableSentinel string
}

// MySQL reads metadata from information_schema for the connection's default
// database.
var MySQL = Dialect{
	Name: "mysql",
	TablesQuery: `SELECT TABLE_NAME FROM information_schema.TABLES
		WHERE TABLE_SCHEMA = DATABASE() AND TABLE_TYPE = 'BASE TABLE'
		ORDER BY TABLE_NAME`,
	ColumnsQuery: `SELECT COLUMN_NAME, UPPER(DATA_TYPE),
			COALESCE(CHARACTER_MAXIMUM_LENGTH, NUMERIC_PRECISION, DATETIME_PRECISION, 0),
			IS_NULLABLE
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION`,
	PrimaryKeysQuery: `SELECT COLUMN_NAME FROM information_schema.KEY_COLUMN_USAGE
		WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND CONSTRAINT_NAME = 'PRIMARY'
		ORDER BY ORDINAL_POSITION`,
	NullableSentinel: "YES",
}

// Postgres reads metadata from information_schema for current_schema().
var Postgres = Dialect{
	Name: "postgres",
	TablesQuery: `SELECT table_name::text FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
		ORDER BY table_name`,
	ColumnsQuery: `SELECT column_name::text, upper(data_type::text),
			COALESCE(character_maximum_length, numeric_precision, datetime_precision, 0)::bigint,
			is_nullable::text
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name::text = $1
		ORDER BY ordinal_position`,
	PrimaryKeysQuery: `SELECT kcu.column_name::text
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
			AND tc.table_name = kcu.table_name
		WHERE tc.constraint_type = 'PRIMARY KEY'
			AND tc.table_schema = current_schema() AND tc.table_name::text = $1
		ORDER BY kcu.ordinal_position`,
	NullableSentinel: "YES",
}

// SQLite reads metadata from sqlite_master and the pragma_table_info
// table-valued function. Sizes come from the declared type, e.g. VARCHAR(64).
var SQLite = Dialect{
	Name: "sqlite",
	TablesQuery: `SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`,
	ColumnsQuery: `SELECT name, UPPER(type), 0, CASE WHEN "notnull" = 0 THEN 'YES' ELSE 'NO' END
		FROM pragma_table_info(?)
		ORDER BY cid`,
	PrimaryKeysQuery: `SELECT name FROM pragma_table_info(?) WHERE pk > 0 ORDER BY pk`,
	NullableSentinel: "YES",
}
