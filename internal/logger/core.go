package logger

import (
	"go.uber.org/zap/zapcore"
)

// DBCore is a custom Zap Core that intercepts logs
type DBCore struct {
	zapcore.Core
	writer *DBLogWriter
}

// NewDBCore wraps an existing core (like console logger) and adds DB logging
func NewDBCore(baseCore zapcore.Core, writer *DBLogWriter) zapcore.Core {
	return &DBCore{
		Core:   baseCore,
		writer: writer,
	}
}

// Write is called for every log entry
func (c *DBCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	// Only persist warn and above; info/debug stay on the console
	if entry.Level >= zapcore.WarnLevel {
		var tenantID, jobID string
		for _, f := range fields {
			switch f.Key {
			case "tenant_id":
				tenantID = f.String
			case "job_id":
				jobID = f.String
			}
		}

		c.writer.AddLog(LogEntry{
			Level:    entry.Level,
			Message:  entry.Message,
			TenantID: tenantID,
			JobID:    jobID,
			Caller:   entry.Caller.Function,
		})
	}

	return c.Core.Write(entry, fields)
}

// Check decides if we should log this level
func (c *DBCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}
