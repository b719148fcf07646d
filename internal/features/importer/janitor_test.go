package importer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"estate-crm/internal/config"

	"go.uber.org/zap"
)

func writeArchiveFile(t *testing.T, dir, name string, modTime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("sheet"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPurgeFilesRemovesOnlyStaleUploads(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	stale := writeArchiveFile(t, dir, "1_old.xlsx", now.AddDate(0, 0, -40))
	fresh := writeArchiveFile(t, dir, "2_recent.xlsx", now.AddDate(0, 0, -1))

	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(sub, now.AddDate(0, 0, -40), now.AddDate(0, 0, -40)); err != nil {
		t.Fatal(err)
	}

	j := NewJanitor(nil, &config.Config{JobTTLDays: 30, UploadPath: dir}, zap.NewNop())
	j.purgeFiles(now.AddDate(0, 0, -30))

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale upload %s survived the purge", stale)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("recent upload %s was purged: %v", fresh, err)
	}
	if _, err := os.Stat(sub); err != nil {
		t.Errorf("directories must be left alone: %v", err)
	}
}

func TestPurgeFilesMissingDirectoryIsNoop(t *testing.T) {
	j := NewJanitor(nil, &config.Config{JobTTLDays: 30, UploadPath: filepath.Join(t.TempDir(), "absent")}, zap.NewNop())
	j.purgeFiles(time.Now())
}
