package engine

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/piwi3910/cutbuddy/internal/model"
)

// GeneticConfig holds parameters for the approximate improver.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 50,
		Generations:    100,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
	}
}

// scaledGeneticConfig grows the search for larger cut lists.
func scaledGeneticConfig(cuts int) GeneticConfig {
	config := DefaultGeneticConfig()
	if cuts > 20 {
		config.Generations = 150
	}
	if cuts > 50 {
		config.Generations = 200
		config.PopulationSize = 80
	}
	return config
}

// chromosome is a packing order: a permutation of indices into the cut list.
type chromosome struct {
	order []int
	sol   model.Solution
}

// geneticOptimizer evolves packing orders decoded by the best-fit packer.
type geneticOptimizer struct {
	config GeneticConfig
	cuts   []float64
	stocks []float64
	kerf   float64
	rng    *rand.Rand

	evaluations uint64
	scratch     []float64
}

func newGeneticOptimizer(config GeneticConfig, n normalized, seed int64) *geneticOptimizer {
	return &geneticOptimizer{
		config:  config,
		cuts:    n.cuts,
		stocks:  n.stocks,
		kerf:    n.kerf,
		rng:     rand.New(rand.NewSource(seed)),
		scratch: make([]float64, len(n.cuts)),
	}
}

// evaluate decodes a chromosome into a packed solution.
func (g *geneticOptimizer) evaluate(c *chromosome) error {
	for i, idx := range c.order {
		g.scratch[i] = g.cuts[idx]
	}
	bins, err := packBestFit(g.scratch, g.stocks, g.kerf)
	if err != nil {
		return err
	}
	g.evaluations++
	c.sol = Summarize(bins, g.kerf)
	return nil
}

// initPopulation seeds one chromosome with the descending order, which
// decodes to exactly the heuristic packing, and fills the rest randomly.
func (g *geneticOptimizer) initPopulation() []chromosome {
	n := len(g.cuts)
	population := make([]chromosome, g.config.PopulationSize)
	for i := range population {
		if i == 0 {
			order := make([]int, n)
			for j := range order {
				order[j] = j
			}
			population[i] = chromosome{order: order}
			continue
		}
		population[i] = chromosome{order: g.rng.Perm(n)}
	}
	return population
}

func (g *geneticOptimizer) sortPopulation(population []chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return Better(population[i].sol, population[j].sol, g.kerf)
	})
}

// tournamentSelect picks the best individual from a random tournament.
func (g *geneticOptimizer) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if Better(candidate.sol, best.sol, g.kerf) {
			best = candidate
		}
	}
	return copyChromosome(best)
}

// orderCrossover implements OX1, keeping the relative order of both parents.
func (g *geneticOptimizer) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.order)
	if n <= 2 {
		return copyChromosome(parent1)
	}

	point1 := g.rng.Intn(n)
	point2 := g.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{order: make([]int, n)}
	inSegment := make([]bool, n)
	for i := point1; i <= point2; i++ {
		child.order[i] = parent1.order[i]
		inSegment[parent1.order[i]] = true
	}

	childIdx := (point2 + 1) % n
	for _, idx := range parent2.order {
		if !inSegment[idx] {
			child.order[childIdx] = idx
			childIdx = (childIdx + 1) % n
		}
	}
	return child
}

// mutate applies swap and inversion mutations.
func (g *geneticOptimizer) mutate(c *chromosome) {
	n := len(c.order)
	if n < 2 {
		return
	}

	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		c.order[i], c.order[j] = c.order[j], c.order[i]
	}

	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.order[i], c.order[j] = c.order[j], c.order[i]
			i++
			j--
		}
	}
}

func copyChromosome(c chromosome) chromosome {
	order := make([]int, len(c.order))
	copy(order, c.order)
	return chromosome{order: order, sol: c.sol}
}

// Improver is an anytime approximate solver. It starts from the heuristic
// packing and evolves cut orders until its budget or generations run out.
// Its result is never worse than the heuristic.
type Improver struct {
	opts   options
	config GeneticConfig
	seed   int64
}

// NewImprover creates an improver. A zero seed derives one from the cut count.
func NewImprover(seed int64, opts ...Option) *Improver {
	return &Improver{opts: buildOptions(opts), seed: seed}
}

// WithConfig overrides the generation schedule.
func (im *Improver) WithConfig(config GeneticConfig) *Improver {
	cp := *im
	cp.config = config
	return &cp
}

// Improve runs the genetic search for at most budgetMs milliseconds.
func (im *Improver) Improve(ctx context.Context, req model.Request, budgetMs int64) (model.Report, error) {
	log := im.opts.logger
	req.TimeBudgetMs = budgetMs
	n, err := normalize(req)
	if err != nil {
		return model.Report{}, err
	}

	clock := im.opts.clock
	start := clock.Now()
	if len(n.cuts) == 0 {
		return assemble(Summarize(nil, n.kerf), 0, 0, model.TerminationCompleted), nil
	}

	config := im.config
	if config.PopulationSize == 0 {
		config = scaledGeneticConfig(len(n.cuts))
	}
	seed := im.seed
	if seed == 0 {
		seed = int64(len(n.cuts))
	}
	ga := newGeneticOptimizer(config, n, seed)

	heuristicBins, err := packBestFit(n.cuts, n.stocks, n.kerf)
	if err != nil {
		return model.Report{}, err
	}
	best := Summarize(heuristicBins, n.kerf)
	if n.budgetMs == 0 || config.PopulationSize < 1 {
		return im.finish(best, 0, start, model.TerminationTimedOut), nil
	}

	deadline := deadlineFrom(start, n.budgetMs)
	term := model.TerminationCompleted

	population := ga.initPopulation()
	for i := range population {
		if err := ga.evaluate(&population[i]); err != nil {
			return model.Report{}, err
		}
	}

	for gen := 0; gen < config.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			term = model.TerminationCancelled
			break
		}
		if clock.Now().After(deadline) {
			term = model.TerminationTimedOut
			break
		}

		ga.sortPopulation(population)
		if Better(population[0].sol, best, n.kerf) {
			best = population[0].sol
			log.Debug("improver found better packing",
				zap.Int("generation", gen),
				zap.Float64("objective", best.Objective(n.kerf)),
			)
			if im.opts.onImprove != nil {
				im.opts.onImprove(best)
			}
		}
		if im.opts.onProgress != nil {
			im.opts.onProgress(Progress{ExploredNodes: ga.evaluations, Generation: gen, Best: best})
		}

		newPop := make([]chromosome, 0, config.PopulationSize)
		eliteCount := config.EliteCount
		if eliteCount > len(population) {
			eliteCount = len(population)
		}
		for i := 0; i < eliteCount; i++ {
			newPop = append(newPop, copyChromosome(population[i]))
		}

		for len(newPop) < config.PopulationSize {
			parent1 := ga.tournamentSelect(population)
			parent2 := ga.tournamentSelect(population)
			child := ga.orderCrossover(parent1, parent2)
			ga.mutate(&child)
			if err := ga.evaluate(&child); err != nil {
				return model.Report{}, err
			}
			newPop = append(newPop, child)
		}
		population = newPop
	}

	if term == model.TerminationCompleted {
		ga.sortPopulation(population)
		if Better(population[0].sol, best, n.kerf) {
			best = population[0].sol
			if im.opts.onImprove != nil {
				im.opts.onImprove(best)
			}
		}
	}

	return im.finish(best, ga.evaluations, start, term), nil
}

// finish assembles an improver report. The improver never certifies optimality.
func (im *Improver) finish(best model.Solution, evaluations uint64, start time.Time, term model.Termination) model.Report {
	r := assemble(best, evaluations, model.Round(elapsedMs(im.opts.clock, start), 3), term)
	r.Optimality = model.OptimalityNotProven
	r.Mode = model.ModeApprox
	return r
}
