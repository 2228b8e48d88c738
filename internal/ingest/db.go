// Live-table ingestion: running a single, pre-validated, read-only query
// against a MySQL or Postgres source and materializing the result set as
// a Table. Validation keeps the engine from ever executing anything but
// a bare SELECT against a user-supplied query string — the dialect's own
// parser is the gate, not a regex.
package ingest

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	tidbast "github.com/pingcap/tidb/pkg/parser/ast"
	tidbparser "github.com/pingcap/tidb/pkg/parser"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"
	vitess "github.com/blastrain/vitess-sqlparser/sqlparser"

	_ "github.com/go-sql-driver/mysql"

	"anonaudit/internal/model"
)

// Driver names accepted in configuration's [ingest] section.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// ValidateReadOnlyQuery parses query with the dialect appropriate to
// driver and rejects anything but a single SELECT statement, closing off
// the obvious SQL-injection surface of a user-supplied query string in
// configuration.
func ValidateReadOnlyQuery(driver, query string) error {
	switch driver {
	case DriverMySQL:
		return validateMySQLSelect(query)
	case DriverPostgres:
		return validatePostgresSelect(query)
	default:
		return fmt.Errorf("ingest: unsupported driver %q", driver)
	}
}

func validateMySQLSelect(query string) error {
	p := tidbparser.New()
	stmts, _, err := p.Parse(query, "", "")
	if err != nil {
		return fmt.Errorf("ingest: parsing query: %w", err)
	}
	if len(stmts) != 1 {
		return fmt.Errorf("ingest: query must contain exactly one statement")
	}
	if _, ok := stmts[0].(*tidbast.SelectStmt); !ok {
		return fmt.Errorf("ingest: query must be a single read-only SELECT")
	}
	return nil
}

func validatePostgresSelect(query string) error {
	stmt, err := vitess.Parse(query)
	if err != nil {
		return fmt.Errorf("ingest: parsing query: %w", err)
	}
	if _, ok := stmt.(*vitess.Select); !ok {
		return fmt.Errorf("ingest: query must be a single read-only SELECT")
	}
	return nil
}

// LoadLiveTable runs query against driver/dsn and materializes the result
// as a Table named tableName. The query is validated with
// ValidateReadOnlyQuery before anything is executed.
func LoadLiveTable(ctx context.Context, driver, dsn, query, tableName string) (*model.Table, error) {
	if err := ValidateReadOnlyQuery(driver, query); err != nil {
		return nil, err
	}

	switch driver {
	case DriverMySQL:
		return loadMySQL(ctx, dsn, query, tableName)
	case DriverPostgres:
		return loadPostgres(ctx, dsn, query, tableName)
	default:
		return nil, fmt.Errorf("ingest: unsupported driver %q", driver)
	}
}

func loadMySQL(ctx context.Context, dsn, query, tableName string) (*model.Table, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("ingest: opening mysql connection: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ingest: pinging mysql: %w", err)
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ingest: running query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	data := make(map[string][]model.Cell, len(columns))
	for _, c := range columns {
		data[c] = nil
	}

	scanArgs := make([]interface{}, len(columns))
	scanVals := make([]interface{}, len(columns))
	for i := range scanArgs {
		scanArgs[i] = &scanVals[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("ingest: scanning row: %w", err)
		}
		for i, c := range columns {
			data[c] = append(data[c], sqlValueToCell(scanVals[i]))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	return model.NewTable(tableName, columns, data)
}

func loadPostgres(ctx context.Context, dsn, query, tableName string) (*model.Table, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("ingest: opening postgres connection: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ingest: pinging postgres: %w", err)
	}

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ingest: running query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = string(f.Name)
	}

	data := make(map[string][]model.Cell, len(columns))
	for _, c := range columns {
		data[c] = nil
	}

	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("ingest: scanning row: %w", err)
		}
		for i, c := range columns {
			data[c] = append(data[c], sqlValueToCell(vals[i]))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	return model.NewTable(tableName, columns, data)
}

func sqlValueToCell(v interface{}) model.Cell {
	switch val := v.(type) {
	case nil:
		return model.NullCell
	case int64:
		return model.IntCell(val)
	case int32:
		return model.IntCell(int64(val))
	case int:
		return model.IntCell(int64(val))
	case float64:
		return model.RealCell(val)
	case float32:
		return model.RealCell(float64(val))
	case []byte:
		return model.StrCell(string(val))
	case string:
		return model.StrCell(val)
	case bool:
		if val {
			return model.IntCell(1)
		}
		return model.IntCell(0)
	default:
		return model.StrCell(fmt.Sprintf("%v", val))
	}
}
