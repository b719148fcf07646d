package sync

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"estate-crm/internal/connectors"
	"estate-crm/internal/features/importer"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeSettingRepo struct {
	setting *SyncSetting

	recordedJobID string
	recordedErr   string
	recorded      bool
}

func (r *fakeSettingRepo) Save(ctx context.Context, setting *SyncSetting) error { return nil }

func (r *fakeSettingRepo) FindByID(ctx context.Context, id string) (*SyncSetting, error) {
	if r.setting == nil {
		return nil, errors.New("setting not found")
	}
	return r.setting, nil
}

func (r *fakeSettingRepo) List(ctx context.Context) ([]SyncSetting, error) { return nil, nil }

func (r *fakeSettingRepo) RecordRun(ctx context.Context, id primitive.ObjectID, jobID, runErr string) error {
	r.recorded = true
	r.recordedJobID = jobID
	r.recordedErr = runErr
	return nil
}

func (r *fakeSettingRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeSource struct {
	connectErr error
	fetchErr   error
	headers    []string
	rows       []map[string]string

	fetchedTable string
	fetchedLimit int64
	closed       bool
}

func (s *fakeSource) Connect(ctx context.Context, cfg connectors.Config) error {
	return s.connectErr
}

func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}

func (s *fakeSource) TestConnection(ctx context.Context) error { return nil }

func (s *fakeSource) FetchRows(ctx context.Context, table string, limit int64) ([]string, []map[string]string, error) {
	s.fetchedTable = table
	s.fetchedLimit = limit
	return s.headers, s.rows, s.fetchErr
}

type fakeImports struct {
	analyzeErr error

	gotSource  string
	gotRows    []map[string]string
	gotMapping map[string]string
	job        *importer.ImportJob
}

func (f *fakeImports) Preview(ctx context.Context, file io.Reader, filename string, override map[string]string) (*importer.ImportPreview, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeImports) Analyze(ctx context.Context, file io.Reader, filename string, override map[string]string) (*importer.ImportJob, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeImports) AnalyzeRows(ctx context.Context, source string, headers []string, rows []map[string]string, override map[string]string) (*importer.ImportJob, error) {
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	f.gotSource = source
	f.gotRows = rows
	f.gotMapping = override
	f.job = &importer.ImportJob{ID: primitive.NewObjectID(), FileName: source, TotalRows: len(rows)}
	return f.job, nil
}

func (f *fakeImports) Apply(ctx context.Context, jobID string) (*importer.ImportJob, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeImports) ListJobs(ctx context.Context, limit int64) ([]importer.ImportJob, error) {
	return nil, nil
}

func (f *fakeImports) GetJob(ctx context.Context, id string) (*importer.ImportJob, error) {
	return nil, errors.New("not implemented")
}

func testSetting() *SyncSetting {
	return &SyncSetting{
		ID:   primitive.NewObjectID(),
		Name: "listado externo",
		Connection: connectors.Config{
			Type:     "postgresql",
			Host:     "localhost",
			Port:     5432,
			Database: "listings",
		},
		Table:         "proyectos",
		ColumnMapping: map[string]string{"nombre": "name"},
		RowLimit:      100,
	}
}

func newTestService(repo *fakeSettingRepo, source *fakeSource, imports *fakeImports) SyncService {
	return NewSyncService(repo, imports, func() connectors.ListingSource { return source }, zap.NewNop())
}

func TestRunFeedsRowsIntoAnalysis(t *testing.T) {
	repo := &fakeSettingRepo{setting: testSetting()}
	source := &fakeSource{
		headers: []string{"nombre"},
		rows:    []map[string]string{{"nombre": "Plaza Zañartu"}, {"nombre": "Mirador Oriente"}},
	}
	imports := &fakeImports{}
	svc := newTestService(repo, source, imports)

	job, err := svc.Run(context.Background(), repo.setting.ID.Hex())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if source.fetchedTable != "proyectos" || source.fetchedLimit != 100 {
		t.Errorf("fetched %s limit %d, want proyectos limit 100", source.fetchedTable, source.fetchedLimit)
	}
	if !source.closed {
		t.Error("source connection was not closed")
	}
	if imports.gotSource != "sql:listings/proyectos" {
		t.Errorf("job source = %q, want sql:listings/proyectos", imports.gotSource)
	}
	if len(imports.gotRows) != 2 {
		t.Errorf("analyzed %d rows, want 2", len(imports.gotRows))
	}
	if imports.gotMapping["nombre"] != "name" {
		t.Error("column mapping override was not forwarded")
	}
	if !repo.recorded || repo.recordedJobID != job.ID.Hex() || repo.recordedErr != "" {
		t.Errorf("run not recorded cleanly: job=%q err=%q", repo.recordedJobID, repo.recordedErr)
	}
}

func TestRunRecordsFailures(t *testing.T) {
	tests := []struct {
		name    string
		source  *fakeSource
		imports *fakeImports
		wantErr string
	}{
		{
			name:    "connect failure",
			source:  &fakeSource{connectErr: errors.New("connection refused")},
			imports: &fakeImports{},
			wantErr: "connection refused",
		},
		{
			name:    "fetch failure",
			source:  &fakeSource{fetchErr: errors.New("relation does not exist")},
			imports: &fakeImports{},
			wantErr: "relation does not exist",
		},
		{
			name:    "analyze failure",
			source:  &fakeSource{headers: []string{"nombre"}},
			imports: &fakeImports{analyzeErr: errors.New("no column maps to the project name")},
			wantErr: "no column maps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeSettingRepo{setting: testSetting()}
			svc := newTestService(repo, tt.source, tt.imports)

			_, err := svc.Run(context.Background(), repo.setting.ID.Hex())
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want %q", err, tt.wantErr)
			}
			if !repo.recorded {
				t.Fatal("failed run left no trace on the setting")
			}
			if repo.recordedJobID != "" {
				t.Errorf("failed run recorded job id %q", repo.recordedJobID)
			}
			if !strings.Contains(repo.recordedErr, tt.wantErr) {
				t.Errorf("recorded error %q, want it to contain %q", repo.recordedErr, tt.wantErr)
			}
		})
	}
}

func TestSaveSettingRejectsUnknownDatabaseType(t *testing.T) {
	svc := newTestService(&fakeSettingRepo{}, &fakeSource{}, &fakeImports{})

	s := testSetting()
	s.Connection.Type = "oracle"
	if _, err := svc.SaveSetting(context.Background(), s); err == nil {
		t.Error("unsupported database type was accepted")
	}

	s = testSetting()
	s.Table = ""
	if _, err := svc.SaveSetting(context.Background(), s); err == nil {
		t.Error("setting without a table was accepted")
	}
}
