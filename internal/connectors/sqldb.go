package connectors

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// SQLListingSource reads listings from postgres or mysql.
type SQLListingSource struct {
	dbType string
	db     *sql.DB
}

func NewSQLListingSource() *SQLListingSource {
	return &SQLListingSource{}
}

func (c *SQLListingSource) Connect(ctx context.Context, cfg Config) error {
	driver, dsn, err := buildDSN(cfg)
	if err != nil {
		return err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(1)

	c.dbType = cfg.Type
	c.db = db
	return nil
}

func buildDSN(cfg Config) (driver, dsn string, err error) {
	switch cfg.Type {
	case "postgresql":
		sslMode := cfg.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return "postgres", fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, sslMode), nil
	case "mysql":
		return "mysql", fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database), nil
	default:
		return "", "", fmt.Errorf("unsupported database type %q", cfg.Type)
	}
}

func (c *SQLListingSource) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *SQLListingSource) TestConnection(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("database connection not established")
	}
	return c.db.PingContext(ctx)
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// cellString renders one scanned SQL value the way a spreadsheet cell would
// read. Drivers hand back []byte, numbers or time.Time depending on type.
func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	case time.Time:
		return t.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", t)
	}
}

// FetchRows reads every column of the given table as strings. The table name
// is interpolated, so it is restricted to a bare identifier.
func (c *SQLListingSource) FetchRows(ctx context.Context, table string, limit int64) ([]string, []map[string]string, error) {
	if c.db == nil {
		return nil, nil, fmt.Errorf("database connection not established")
	}
	if !identPattern.MatchString(table) {
		return nil, nil, fmt.Errorf("invalid table name %q", table)
	}

	query := fmt.Sprintf("SELECT * FROM %s", table)
	if limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, limit)
	}

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	headers, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var result []map[string]string
	for rows.Next() {
		values := make([]interface{}, len(headers))
		ptrs := make([]interface{}, len(headers))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]string, len(headers))
		for i, h := range headers {
			row[h] = cellString(values[i])
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return headers, result, nil
}
