package connectors

import "context"

// Config describes one external listings database.
type Config struct {
	Type     string `bson:"type" json:"type"` // "postgresql" or "mysql"
	Host     string `bson:"host" json:"host"`
	Port     int    `bson:"port" json:"port"`
	Database string `bson:"database" json:"database"`
	User     string `bson:"user" json:"user"`
	Password string `bson:"password" json:"-"`
	SSLMode  string `bson:"ssl_mode,omitempty" json:"ssl_mode,omitempty"` // postgres only
}

// ListingSource pulls tabular listing data from an external system. Rows
// come back in the same header/row shape as the spreadsheet parser so the
// reconciliation pipeline consumes both without caring about the origin.
type ListingSource interface {
	Connect(ctx context.Context, cfg Config) error
	Close() error
	TestConnection(ctx context.Context) error
	FetchRows(ctx context.Context, table string, limit int64) (headers []string, rows []map[string]string, err error)
}
