package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/cutbuddy/internal/model"
)

func TestExportImportAllData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup", "all.json")

	cfg := model.DefaultAppConfig()
	cfg.Theme = "dark"
	store := model.NewTemplateStore()
	store.Add(model.NewProjectTemplate("Shelf", "", model.NewProject()))

	err := ExportAllData(path, BackupData{
		Config:    cfg,
		Inventory: model.DefaultInventory(),
		Templates: store,
		Profiles:  testProfiles(),
	})
	if err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Version != BackupVersion {
		t.Errorf("expected version %s, got %s", BackupVersion, backup.Version)
	}
	if backup.CreatedAt == "" {
		t.Error("expected creation timestamp")
	}
	if backup.Config.Theme != "dark" {
		t.Errorf("expected theme dark, got %s", backup.Config.Theme)
	}
	if len(backup.Inventory.Blades) != 4 {
		t.Errorf("expected 4 blades, got %d", len(backup.Inventory.Blades))
	}
	if len(backup.Templates.Templates) != 1 {
		t.Errorf("expected 1 template, got %d", len(backup.Templates.Templates))
	}
	if len(backup.Profiles) != 2 || backup.Profiles[1].BuiltIn {
		t.Errorf("unexpected profiles %+v", backup.Profiles)
	}
}

func TestImportAllDataMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"config":{}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportAllData(path); err == nil {
		t.Error("expected error for missing version")
	}
}

func TestImportAllDataDefaultsNilLists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version":"1.0.0","config":{"theme":"light"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Config.RecentProjects == nil || backup.Templates.Templates == nil {
		t.Error("expected nil lists to be replaced with empty ones")
	}
}

func TestImportAllDataMissingFile(t *testing.T) {
	if _, err := ImportAllData(filepath.Join(t.TempDir(), "none.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
