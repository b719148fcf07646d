package sync

import (
	"context"
	"fmt"

	"estate-crm/internal/connectors"
	"estate-crm/internal/features/importer"

	"go.uber.org/zap"
)

// SourceFactory builds a fresh connection per run; external databases are
// not held open between syncs.
type SourceFactory func() connectors.ListingSource

type SyncService interface {
	SaveSetting(ctx context.Context, setting *SyncSetting) (*SyncSetting, error)
	GetSetting(ctx context.Context, id string) (*SyncSetting, error)
	ListSettings(ctx context.Context) ([]SyncSetting, error)
	DeleteSetting(ctx context.Context, id string) error
	TestSetting(ctx context.Context, id string) error
	Run(ctx context.Context, id string) (*importer.ImportJob, error)
}

type SyncServiceImpl struct {
	Settings  SyncSettingRepository
	Imports   importer.ImportService
	NewSource SourceFactory
	Log       *zap.Logger
}

func NewSyncService(settings SyncSettingRepository, imports importer.ImportService, newSource SourceFactory, log *zap.Logger) SyncService {
	return &SyncServiceImpl{
		Settings:  settings,
		Imports:   imports,
		NewSource: newSource,
		Log:       log,
	}
}

func (s *SyncServiceImpl) SaveSetting(ctx context.Context, setting *SyncSetting) (*SyncSetting, error) {
	if setting.Name == "" || setting.Table == "" {
		return nil, fmt.Errorf("name and table are required")
	}
	if setting.Connection.Type != "postgresql" && setting.Connection.Type != "mysql" {
		return nil, fmt.Errorf("unsupported database type %q", setting.Connection.Type)
	}
	if err := s.Settings.Save(ctx, setting); err != nil {
		return nil, err
	}
	return setting, nil
}

func (s *SyncServiceImpl) GetSetting(ctx context.Context, id string) (*SyncSetting, error) {
	return s.Settings.FindByID(ctx, id)
}

func (s *SyncServiceImpl) ListSettings(ctx context.Context) ([]SyncSetting, error) {
	return s.Settings.List(ctx)
}

func (s *SyncServiceImpl) DeleteSetting(ctx context.Context, id string) error {
	return s.Settings.Delete(ctx, id)
}

func (s *SyncServiceImpl) TestSetting(ctx context.Context, id string) error {
	setting, err := s.Settings.FindByID(ctx, id)
	if err != nil {
		return err
	}
	source := s.NewSource()
	if err := source.Connect(ctx, setting.Connection); err != nil {
		return err
	}
	defer source.Close()
	return source.TestConnection(ctx)
}

// Run pulls the configured table and feeds the rows through the same
// analysis as an uploaded spreadsheet. The resulting job still waits for an
// explicit apply.
func (s *SyncServiceImpl) Run(ctx context.Context, id string) (*importer.ImportJob, error) {
	setting, err := s.Settings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	source := s.NewSource()
	if err := source.Connect(ctx, setting.Connection); err != nil {
		s.recordRun(ctx, setting, "", err)
		return nil, fmt.Errorf("connecting to %s: %w", setting.Name, err)
	}
	defer source.Close()

	headers, rows, err := source.FetchRows(ctx, setting.Table, setting.RowLimit)
	if err != nil {
		s.recordRun(ctx, setting, "", err)
		return nil, fmt.Errorf("fetching %s.%s: %w", setting.Name, setting.Table, err)
	}

	sourceName := fmt.Sprintf("sql:%s/%s", setting.Connection.Database, setting.Table)
	job, err := s.Imports.AnalyzeRows(ctx, sourceName, headers, rows, setting.ColumnMapping)
	if err != nil {
		s.recordRun(ctx, setting, "", err)
		return nil, err
	}

	s.recordRun(ctx, setting, job.ID.Hex(), nil)
	s.Log.Info("sync analyzed",
		zap.String("setting", setting.Name),
		zap.String("job_id", job.ID.Hex()),
		zap.Int("rows", len(rows)))
	return job, nil
}

func (s *SyncServiceImpl) recordRun(ctx context.Context, setting *SyncSetting, jobID string, runErr error) {
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}
	if err := s.Settings.RecordRun(ctx, setting.ID, jobID, msg); err != nil {
		s.Log.Error("recording sync run failed", zap.Error(err))
	}
}
