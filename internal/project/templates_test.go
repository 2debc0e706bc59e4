package project

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/cutbuddy/internal/model"
)

func TestSaveAndLoadTemplates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")

	p := model.NewProject()
	p.Cuts = []model.CutItem{model.NewCutItem("Rail", 36, 2)}
	store := model.NewTemplateStore()
	store.Add(model.NewProjectTemplate("Frame", "Door frame", p))

	if err := SaveTemplates(path, store); err != nil {
		t.Fatalf("SaveTemplates failed: %v", err)
	}

	loaded, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates failed: %v", err)
	}
	if len(loaded.Templates) != 1 {
		t.Fatalf("expected 1 template, got %d", len(loaded.Templates))
	}
	if loaded.Templates[0].Name != "Frame" || len(loaded.Templates[0].Cuts) != 1 {
		t.Errorf("unexpected template %+v", loaded.Templates[0])
	}
}

func TestLoadTemplatesMissingFile(t *testing.T) {
	store, err := LoadTemplates(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if store.Templates == nil || len(store.Templates) != 0 {
		t.Errorf("expected empty store, got %+v", store)
	}
}

func TestDefaultTemplatePath(t *testing.T) {
	if filepath.Base(DefaultTemplatePath()) != "templates.json" {
		t.Errorf("unexpected template path %s", DefaultTemplatePath())
	}
}
