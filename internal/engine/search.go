package engine

import (
	"math"
	"time"

	"github.com/piwi3910/cutbuddy/internal/model"
)

// progressEvery is how many explored nodes pass between progress callbacks.
const progressEvery = 1 << 16

// search owns every piece of mutable state for one branch-and-bound run.
// It is created per request and never shared.
type search struct {
	cuts     []float64
	stocks   []float64
	kerf     float64
	maxStock float64
	suffix   []float64 // suffix[i] = sum of cuts[i:]

	clock    Clock
	start    time.Time
	deadline time.Time
	done     <-chan struct{}

	memo     *memoTable
	bins     []model.Bin
	explored uint64
	stop     model.Termination // empty while running

	best    model.Solution
	bestObj float64

	onImprove  func(model.Solution)
	onProgress func(Progress)
}

func newSearch(n normalized, incumbent model.Solution, clock Clock, start time.Time, done <-chan struct{}) *search {
	suffix := make([]float64, len(n.cuts)+1)
	for i := len(n.cuts) - 1; i >= 0; i-- {
		suffix[i] = suffix[i+1] + n.cuts[i]
	}
	return &search{
		cuts:     n.cuts,
		stocks:   n.stocks,
		kerf:     n.kerf,
		maxStock: n.maxStock(),
		suffix:   suffix,
		clock:    clock,
		start:    start,
		deadline: deadlineFrom(start, n.budgetMs),
		done:     done,
		memo:     newMemoTable(),
		bins:     make([]model.Bin, 0, len(n.cuts)),
		best:     incumbent,
		bestObj:  incumbent.Objective(n.kerf),
	}
}

// run explores the whole tree from the empty assignment and returns how it ended.
func (s *search) run() model.Termination {
	s.dfs(0, 0)
	if s.stop == "" {
		return model.TerminationCompleted
	}
	return s.stop
}

func (s *search) halt(t model.Termination) {
	if s.stop == "" {
		s.stop = t
	}
}

func (s *search) dfs(index int, curStock float64) {
	s.explored++
	if s.onProgress != nil && s.explored%progressEvery == 0 {
		s.onProgress(Progress{ExploredNodes: s.explored, Best: s.best})
	}

	if s.clock.Now().After(s.deadline) {
		s.halt(model.TerminationTimedOut)
		return
	}
	if s.stop != "" {
		return
	}
	select {
	case <-s.done:
		s.halt(model.TerminationCancelled)
		return
	default:
	}

	binCount := len(s.bins)
	curObj := curStock + s.kerf*float64(binCount)

	free := 0.0
	for _, b := range s.bins {
		if b.Remaining > 0 {
			free += b.Remaining
		}
	}
	reqExtra := math.Max(s.suffix[index]-free, 0)
	minNew := 0
	if reqExtra > model.Epsilon {
		minNew = int(math.Ceil(reqExtra / s.maxStock))
	}
	optimistic := curStock + reqExtra + s.kerf*float64(binCount+minNew)
	if optimistic > s.bestObj+model.Epsilon {
		return
	}

	if s.memo.visit(index, s.bins, curObj) {
		return
	}

	if index >= len(s.cuts) {
		s.offer(Summarize(model.CloneBins(s.bins), s.kerf))
		return
	}

	cut := s.cuts[index]

	var seenBuf [16]pair
	seen := seenBuf[:0]
	for i := 0; i < len(s.bins); i++ {
		extra := 0.0
		if len(s.bins[i].Cuts) > 0 {
			extra = s.kerf
		}
		required := cut + extra
		if s.bins[i].Remaining-required < -model.Epsilon {
			continue
		}

		nextRem := model.Round(s.bins[i].Remaining-required, 6)
		key := pair{quantize(s.bins[i].StockLength), quantize(nextRem)}
		if containsPair(seen, key) {
			continue
		}
		seen = append(seen, key)

		s.bins[i].Cuts = append(s.bins[i].Cuts, cut)
		s.bins[i].Used = model.Round(s.bins[i].Used+required, 6)
		s.bins[i].Remaining = nextRem

		s.dfs(index+1, curStock)

		b := &s.bins[i]
		b.Cuts = b.Cuts[:len(b.Cuts)-1]
		b.Used = model.Round(b.Used-required, 6)
		b.Remaining = model.Round(b.Remaining+required, 6)
	}

	for _, stock := range s.stocks {
		if stock-cut < -model.Epsilon {
			continue
		}
		s.bins = append(s.bins, model.NewBin(stock, cut))
		s.dfs(index+1, curStock+stock)
		s.bins = s.bins[:len(s.bins)-1]
	}
}

// offer replaces the incumbent when the candidate is strictly better.
func (s *search) offer(candidate model.Solution) {
	if !Better(candidate, s.best, s.kerf) {
		return
	}
	s.best = candidate
	s.bestObj = candidate.Objective(s.kerf)
	if s.onImprove != nil {
		s.onImprove(candidate)
	}
}

func containsPair(pairs []pair, p pair) bool {
	for _, q := range pairs {
		if q == p {
			return true
		}
	}
	return false
}
