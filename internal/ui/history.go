package ui

import "github.com/piwi3910/cutbuddy/internal/model"

const defaultMaxDepth = 50

// Snapshot captures the editable project state at a point in time.
type Snapshot struct {
	Cuts     []model.CutItem
	Stocks   []model.StockItem
	Settings model.Settings
	Label    string // e.g. "Add Cut"
}

// History manages undo/redo stacks of project snapshots.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxDepth  int
}

func NewHistory() *History {
	return &History{
		maxDepth: defaultMaxDepth,
	}
}

// Push saves a snapshot onto the undo stack and clears the redo stack.
// Call it before the edit is applied.
func (h *History) Push(s Snapshot) {
	h.undoStack = append(h.undoStack, s)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
	h.redoStack = nil
}

// Undo pops the most recent snapshot and pushes current onto the redo
// stack. It returns false when there is nothing to undo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current)
	return last, true
}

// Redo is the inverse of Undo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, current)
	return last, true
}

func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// UndoLabel names the edit the next Undo reverts, or "".
func (h *History) UndoLabel() string {
	if len(h.undoStack) == 0 {
		return ""
	}
	return h.undoStack[len(h.undoStack)-1].Label
}

// Clear removes all undo and redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

func copyCuts(cuts []model.CutItem) []model.CutItem {
	if cuts == nil {
		return nil
	}
	cp := make([]model.CutItem, len(cuts))
	copy(cp, cuts)
	return cp
}

func copyStocks(stocks []model.StockItem) []model.StockItem {
	if stocks == nil {
		return nil
	}
	cp := make([]model.StockItem, len(stocks))
	copy(cp, stocks)
	return cp
}

// MakeSnapshot copies the editable parts of p under the given label.
func MakeSnapshot(p model.Project, label string) Snapshot {
	return Snapshot{
		Cuts:     copyCuts(p.Cuts),
		Stocks:   copyStocks(p.Stocks),
		Settings: p.Settings,
		Label:    label,
	}
}

// Apply writes a snapshot back into p. Any previous result is dropped
// because it no longer matches the cut list.
func (s Snapshot) Apply(p *model.Project) {
	p.Cuts = copyCuts(s.Cuts)
	p.Stocks = copyStocks(s.Stocks)
	p.Settings = s.Settings
	p.Result = nil
}
