package model

import (
	"time"

	"github.com/google/uuid"
)

// ProjectTemplate represents a reusable project configuration that captures
// cuts, stock lengths, and settings but not solve results.
type ProjectTemplate struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	CreatedAt   string      `json:"created_at"`
	UpdatedAt   string      `json:"updated_at"`
	Unit        string      `json:"unit"`
	Cuts        []CutItem   `json:"cuts"`
	Stocks      []StockItem `json:"stocks"`
	Settings    Settings    `json:"settings"`
}

// NewProjectTemplate creates a new template from the given project data.
// It copies cuts, stocks, and settings but intentionally excludes results.
func NewProjectTemplate(name, description string, p Project) ProjectTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	return ProjectTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Unit:        p.Unit,
		Cuts:        copyCuts(p.Cuts),
		Stocks:      copyStocks(p.Stocks),
		Settings:    p.Settings,
	}
}

// ToProject creates a new Project from this template.
// Cuts and stocks get fresh IDs so they are independent of the template.
func (t ProjectTemplate) ToProject(projectName string) Project {
	cuts := make([]CutItem, len(t.Cuts))
	for i, c := range t.Cuts {
		cuts[i] = NewCutItem(c.Label, c.Length, c.Quantity)
	}

	stocks := make([]StockItem, len(t.Stocks))
	for i, s := range t.Stocks {
		stocks[i] = NewStockItem(s.Label, s.Length)
		stocks[i].Price = s.Price
	}

	unit := t.Unit
	if unit == "" {
		unit = "inches"
	}
	return Project{
		Name:     projectName,
		Unit:     unit,
		Cuts:     cuts,
		Stocks:   stocks,
		Settings: t.Settings,
	}
}

// TemplateStore holds a collection of project templates.
type TemplateStore struct {
	Templates []ProjectTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []ProjectTemplate{},
	}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t ProjectTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *ProjectTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names returns a list of template names for UI dropdowns.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *ProjectTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

func copyCuts(cuts []CutItem) []CutItem {
	if cuts == nil {
		return []CutItem{}
	}
	cp := make([]CutItem, len(cuts))
	copy(cp, cuts)
	return cp
}

func copyStocks(stocks []StockItem) []StockItem {
	if stocks == nil {
		return []StockItem{}
	}
	cp := make([]StockItem, len(stocks))
	copy(cp, stocks)
	return cp
}
