package project

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/piwi3910/cutbuddy/internal/model"
)

// FileExtension is the extension used for saved project files.
const FileExtension = ".cutbuddy"

// SaveProject writes a project, including its last solve result, as JSON.
func SaveProject(path string, p model.Project) error {
	if err := writeJSON(path, p); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

// LoadProject reads a project file. Missing lists become empty and an
// unknown solver mode falls back to auto.
func LoadProject(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project: %w", err)
	}
	p := model.NewProject()
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project: %w", err)
	}
	if p.Cuts == nil {
		p.Cuts = []model.CutItem{}
	}
	if p.Stocks == nil {
		p.Stocks = []model.StockItem{}
	}
	if !p.Settings.Mode.Valid() {
		p.Settings.Mode = model.ModeAuto
	}
	if p.Unit == "" {
		p.Unit = "inches"
	}
	return p, nil
}
