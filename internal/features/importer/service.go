package importer

import (
	"context"
	"fmt"
	"io"

	"estate-crm/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Notifier pushes progress events to connected clients. The websocket hub
// implements it; a no-op stands in during tests.
type Notifier interface {
	Notify(tenantID string, event string, payload interface{})
}

type NoopNotifier struct{}

func (NoopNotifier) Notify(string, string, interface{}) {}

type ImportService interface {
	Preview(ctx context.Context, file io.Reader, filename string, override map[string]string) (*ImportPreview, error)
	Analyze(ctx context.Context, file io.Reader, filename string, override map[string]string) (*ImportJob, error)
	// AnalyzeRows is the spreadsheet-free entry point used by the SQL sync.
	AnalyzeRows(ctx context.Context, source string, headers []string, rows []map[string]string, override map[string]string) (*ImportJob, error)
	Apply(ctx context.Context, jobID string) (*ImportJob, error)
	ListJobs(ctx context.Context, limit int64) ([]ImportJob, error)
	GetJob(ctx context.Context, id string) (*ImportJob, error)
}

type ImportServiceImpl struct {
	Jobs     ImportJobRepository
	Analyzer *Analyzer
	Applier  *Applier
	Notifier Notifier
	Log      *zap.Logger
}

func NewImportService(jobs ImportJobRepository, analyzer *Analyzer, applier *Applier, notifier Notifier, log *zap.Logger) ImportService {
	return &ImportServiceImpl{
		Jobs:     jobs,
		Analyzer: analyzer,
		Applier:  applier,
		Notifier: notifier,
		Log:      log,
	}
}

const previewRows = 5

// Preview parses the sheet and proposes a column mapping without touching
// stored data, so the operator can correct it before analysis.
func (s *ImportServiceImpl) Preview(ctx context.Context, file io.Reader, filename string, override map[string]string) (*ImportPreview, error) {
	headers, rows, err := ParseSpreadsheet(file, filename)
	if err != nil {
		return nil, err
	}
	mapping := BuildMapping(headers, override)

	sample := rows
	if len(sample) > previewRows {
		sample = sample[:previewRows]
	}
	return &ImportPreview{
		Headers:    headers,
		Mapping:    mapping,
		SampleRows: sample,
		TotalRows:  len(rows),
	}, nil
}

// Analyze runs the read-only diff and persists the change-set as a job
// awaiting confirmation.
func (s *ImportServiceImpl) Analyze(ctx context.Context, file io.Reader, filename string, override map[string]string) (*ImportJob, error) {
	headers, rows, err := ParseSpreadsheet(file, filename)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeRows(ctx, filename, headers, rows, override)
}

func (s *ImportServiceImpl) AnalyzeRows(ctx context.Context, source string, headers []string, rows []map[string]string, override map[string]string) (*ImportJob, error) {
	tenant, userID, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	mapping := BuildMapping(headers, override)
	if err := ValidateMapping(mapping); err != nil {
		return nil, err
	}

	changeSet, err := s.Analyzer.Analyze(ctx, rows, mapping, tenant, userID)
	if err != nil {
		return nil, err
	}

	job := &ImportJob{
		UserID:        userID,
		FileName:      source,
		Status:        ImportStatusAnalyzed,
		TotalRows:     len(rows),
		ColumnMapping: mapping,
		ChangeSet:     changeSet,
	}
	if err := s.Jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("saving import job: %w", err)
	}

	s.Notifier.Notify(tenant.Hex(), "import.analyzed", map[string]interface{}{
		"job_id":  job.ID.Hex(),
		"creates": len(changeSet.DbOperations.Insert),
		"updates": len(changeSet.DbOperations.Update),
	})
	return job, nil
}

// Apply executes a previously analyzed job. Only jobs still in the analyzed
// state are runnable; re-running an applied job is rejected.
func (s *ImportServiceImpl) Apply(ctx context.Context, jobID string) (*ImportJob, error) {
	tenant, _, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	job, err := s.Jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != ImportStatusAnalyzed {
		return nil, fmt.Errorf("job is %s, only analyzed jobs can be applied", job.Status)
	}
	if job.ChangeSet == nil {
		return nil, fmt.Errorf("job has no change-set")
	}

	if err := s.Jobs.SetStatus(ctx, job.ID, ImportStatusApplying); err != nil {
		return nil, err
	}
	s.Notifier.Notify(tenant.Hex(), "import.applying", map[string]interface{}{"job_id": job.ID.Hex()})

	outcome := s.Applier.Apply(ctx, job.ChangeSet, tenant)

	status := ImportStatusApplied
	if len(outcome.Errors) > 0 && outcome.Inserted == 0 && outcome.Updated == 0 {
		status = ImportStatusFailed
	}
	if err := s.Jobs.RecordOutcome(ctx, job.ID, status, outcome); err != nil {
		s.Log.Error("recording import outcome failed",
			zap.String("job_id", job.ID.Hex()), zap.Error(err))
	}

	job.Status = status
	job.Inserted = outcome.Inserted
	job.Updated = outcome.Updated
	job.ApplyErrors = outcome.Errors

	s.Notifier.Notify(tenant.Hex(), "import.done", map[string]interface{}{
		"job_id":   job.ID.Hex(),
		"status":   string(status),
		"inserted": outcome.Inserted,
		"updated":  outcome.Updated,
		"errors":   len(outcome.Errors),
	})
	return job, nil
}

func (s *ImportServiceImpl) ListJobs(ctx context.Context, limit int64) ([]ImportJob, error) {
	return s.Jobs.List(ctx, limit)
}

func (s *ImportServiceImpl) GetJob(ctx context.Context, id string) (*ImportJob, error) {
	return s.Jobs.FindByID(ctx, id)
}

func callerFromContext(ctx context.Context) (primitive.ObjectID, string, error) {
	tenantID, ok := ctx.Value(models.TenantIDKey).(string)
	if !ok || tenantID == "" {
		return primitive.NilObjectID, "", fmt.Errorf("tenant context missing")
	}
	oid, err := primitive.ObjectIDFromHex(tenantID)
	if err != nil {
		return primitive.NilObjectID, "", fmt.Errorf("invalid tenant id")
	}
	userID, _ := ctx.Value(models.UserIDKey).(string)
	return oid, userID, nil
}
