package model

import "github.com/google/uuid"

// BladeProfile is a reusable saw blade whose kerf feeds the solver.
type BladeProfile struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Kerf float64 `json:"kerf"` // inches
}

func NewBladeProfile(name string, kerf float64) BladeProfile {
	return BladeProfile{
		ID:   uuid.New().String()[:8],
		Name: name,
		Kerf: kerf,
	}
}

// ApplyToSettings copies the blade kerf into the given Settings.
func (bp BladeProfile) ApplyToSettings(s *Settings) {
	s.Kerf = bp.Kerf
}

// StockPreset is a reusable raw-length definition.
type StockPreset struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Length   float64 `json:"length"` // inches
	Material string  `json:"material"`
	Price    float64 `json:"price"`
}

func NewStockPreset(name string, length float64, material string) StockPreset {
	return StockPreset{
		ID:       uuid.New().String()[:8],
		Name:     name,
		Length:   length,
		Material: material,
	}
}

// NewStockPresetWithPrice creates a preset carrying a unit price.
func NewStockPresetWithPrice(name string, length float64, material string, price float64) StockPreset {
	sp := NewStockPreset(name, length, material)
	sp.Price = price
	return sp
}

// ToStockItem converts a preset into a project stock item.
func (sp StockPreset) ToStockItem() StockItem {
	item := NewStockItem(sp.Name, sp.Length)
	item.Price = sp.Price
	return item
}

// Inventory holds the user's saved blades and stock presets.
type Inventory struct {
	Blades []BladeProfile `json:"blades"`
	Stocks []StockPreset  `json:"stocks"`
}

// DefaultInventory returns an inventory populated with common lumber defaults.
func DefaultInventory() Inventory {
	return Inventory{
		Blades: []BladeProfile{
			NewBladeProfile("Full kerf 1/8\"", 0.125),
			NewBladeProfile("Thin kerf 3/32\"", 0.09375),
			NewBladeProfile("Metal chop 5/64\"", 0.078125),
			NewBladeProfile("Band saw 1/16\"", 0.0625),
		},
		Stocks: []StockPreset{
			NewStockPreset("2x4 8'", 96, "SPF"),
			NewStockPreset("2x4 12'", 144, "SPF"),
			NewStockPreset("2x4 16'", 192, "SPF"),
			NewStockPreset("Metric 2.4 m", 2400/25.4, "Timber"),
			NewStockPreset("Metric 3.0 m", 3000/25.4, "Timber"),
			NewStockPreset("Metric 3.6 m", 3600/25.4, "Timber"),
		},
	}
}

// FindBladeByID returns a pointer to the blade with the given ID, or nil.
func (inv *Inventory) FindBladeByID(id string) *BladeProfile {
	for i := range inv.Blades {
		if inv.Blades[i].ID == id {
			return &inv.Blades[i]
		}
	}
	return nil
}

// FindStockByID returns a pointer to the stock preset with the given ID, or nil.
func (inv *Inventory) FindStockByID(id string) *StockPreset {
	for i := range inv.Stocks {
		if inv.Stocks[i].ID == id {
			return &inv.Stocks[i]
		}
	}
	return nil
}

func (inv *Inventory) BladeNames() []string {
	names := make([]string, len(inv.Blades))
	for i, b := range inv.Blades {
		names[i] = b.Name
	}
	return names
}

func (inv *Inventory) StockNames() []string {
	names := make([]string, len(inv.Stocks))
	for i, s := range inv.Stocks {
		names[i] = s.Name
	}
	return names
}

// FindStockByName returns a pointer to the first stock preset with the given name, or nil.
func (inv *Inventory) FindStockByName(name string) *StockPreset {
	for i := range inv.Stocks {
		if inv.Stocks[i].Name == name {
			return &inv.Stocks[i]
		}
	}
	return nil
}

// FindBladeByName returns a pointer to the first blade with the given name, or nil.
func (inv *Inventory) FindBladeByName(name string) *BladeProfile {
	for i := range inv.Blades {
		if inv.Blades[i].Name == name {
			return &inv.Blades[i]
		}
	}
	return nil
}
