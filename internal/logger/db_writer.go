package logger

import (
	"context"
	"fmt"
	"time"

	"estate-crm/internal/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from Zap to our worker
type LogEntry struct {
	Level    zapcore.Level
	Message  string
	TenantID string
	JobID    string
	Caller   string // Function name
}

// DBLogWriter handles the async writing
type DBLogWriter struct {
	db      *mongo.Database
	logChan chan LogEntry
}

type logRecord struct {
	Message   string    `bson:"message"`
	TenantID  string    `bson:"tenant_id,omitempty"`
	JobID     string    `bson:"job_id,omitempty"`
	Caller    string    `bson:"caller,omitempty"`
	Level     string    `bson:"level"`
	CreatedAt time.Time `bson:"created_at"`
}

// NewDBLogWriter initializes the worker
func NewDBLogWriter(mongodb *database.MongodbDB) *DBLogWriter {
	writer := &DBLogWriter{
		db:      mongodb.DB,
		logChan: make(chan LogEntry, 1000), // Buffer 1000 logs
	}

	// Start the background worker immediately
	go writer.processLogs()

	return writer
}

// AddLog is called by our Zap hook
func (w *DBLogWriter) AddLog(entry LogEntry) {
	select {
	case w.logChan <- entry:
	default:
		// Channel full: drop rather than block the request path
		fmt.Println("DB Log Channel Full! Dropping log:", entry.Message)
	}
}

func (w *DBLogWriter) processLogs() {
	for entry := range w.logChan {
		rec := logRecord{
			Message:   entry.Message,
			TenantID:  entry.TenantID,
			JobID:     entry.JobID,
			Caller:    entry.Caller,
			Level:     entry.Level.String(),
			CreatedAt: time.Now().UTC(),
		}

		// Insert errors are swallowed to keep the app running
		w.db.Collection("app_logs").InsertOne(context.Background(), rec)
	}
}
