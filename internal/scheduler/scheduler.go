package scheduler

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"
)

type Scheduler struct {
	parameters Parameters
	problem    *Problem
	variant    string
	selector   Selector
	crossover  Crossover
	observer   Observer
	rng        *rand.Rand
	initial    []Chromosome // 不为空时代替随机生成的初始种群
}

type Option func(s *Scheduler)

func WithSelector(selector Selector) Option {
	return func(s *Scheduler) { s.selector = selector }
}

func WithCrossover(crossover Crossover) Option {
	return func(s *Scheduler) { s.crossover = crossover }
}

func WithObserver(observer Observer) Option {
	return func(s *Scheduler) { s.observer = observer }
}

func WithRand(rng *rand.Rand) Option {
	return func(s *Scheduler) { s.rng = rng }
}

func WithSeed(seed int64) Option {
	return func(s *Scheduler) { s.rng = rand.New(rand.NewSource(seed)) }
}

func WithInitialPopulation(pop []Chromosome) Option {
	return func(s *Scheduler) { s.initial = pop }
}

func withVariant(name string) Option {
	return func(s *Scheduler) { s.variant = name }
}

func New(parameters Parameters, problem *Problem, opts ...Option) (*Scheduler, error) {
	if problem == nil {
		return nil, fmt.Errorf("%w: 问题实例为空", ErrInvalidProblem)
	}
	if err := parameters.Validate(); err != nil {
		return nil, err
	}

	s := &Scheduler{
		parameters: parameters,
		problem:    problem,
		variant:    VariantRouletteSinglePoint,
		selector:   RouletteSelector{},
		crossover:  SinglePointCrossover,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	if s.initial != nil {
		if len(s.initial) != int(parameters.PopulationSize) {
			return nil, fmt.Errorf("%w: 初始种群大小为 %d，与种群大小 %d 不一致", ErrInvalidParameters, len(s.initial), parameters.PopulationSize)
		}
		for i, ch := range s.initial {
			if len(ch) != problem.ChromosomeLength() {
				return nil, fmt.Errorf("%w: 初始种群中第 %d 个染色体长度为 %d，应为 %d", ErrInvalidParameters, i, len(ch), problem.ChromosomeLength())
			}
		}
	}

	return s, nil
}

func (s *Scheduler) Variant() string        { return s.variant }
func (s *Scheduler) Problem() *Problem      { return s.problem }
func (s *Scheduler) Parameters() Parameters { return s.parameters }

func (s *Scheduler) initPopulation() ([]Chromosome, error) {
	if s.initial != nil {
		pop := make([]Chromosome, len(s.initial))
		for i, ch := range s.initial {
			pop[i] = ch.Clone()
		}
		return pop, nil
	}

	pop := make([]Chromosome, s.parameters.PopulationSize)
	for i := range pop {
		ch, err := s.problem.Generate(s.rng)
		if err != nil {
			return nil, err
		}
		pop[i] = ch
	}
	return pop, nil
}

// 计算整个种群的适应度，计算期间种群只读，结果按下标写回，与协程数无关
func (s *Scheduler) evaluate(ctx context.Context, pop []Chromosome) ([]int, error) {
	fitnesses := make([]int, len(pop))

	if s.parameters.Workers <= 1 {
		for i, ch := range pop {
			fitnesses[i] = s.problem.Fitness(ch)
		}
		return fitnesses, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(int(s.parameters.Workers))
	for i, ch := range pop {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fitnesses[i] = s.problem.Fitness(ch)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return fitnesses, nil
}

func (s *Scheduler) isDegenerate(fitnesses []int) bool {
	worst := s.problem.WorstFitness()
	for _, f := range fitnesses {
		if f != worst {
			return false
		}
	}
	return true
}

func (s *Scheduler) Schedule(ctx context.Context) (*Result, error) {
	start := time.Now()

	// 生成初始种群
	pop, err := s.initPopulation()
	if err != nil {
		return nil, err
	}

	pairs := int(s.parameters.PopulationSize) / 2

	// 迭代，固定代数，不保留精英
	for gen := 0; gen < int(s.parameters.MaxGenerations); gen++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fitnesses, err := s.evaluate(ctx, pop)
		if err != nil {
			return nil, err
		}

		if s.isDegenerate(fitnesses) {
			return nil, fmt.Errorf("第 %d 代: %w", gen, ErrDegeneratePopulation)
		}

		// 繁殖
		newPop := make([]Chromosome, 0, 2*pairs)
		for i := 0; i < pairs; i++ {
			p1 := s.selector.Select(s.rng, pop, fitnesses)
			p2 := s.selector.Select(s.rng, pop, fitnesses)

			c1, c2 := s.crossover(s.rng, p1, p2)

			newPop = append(newPop,
				Mutate(s.rng, c1, s.parameters.MutationRate),
				Mutate(s.rng, c2, s.parameters.MutationRate),
			)
		}

		s.notify(gen, pop, fitnesses)

		pop = newPop
	}

	// 返回最终种群中的最佳个体
	fitnesses, err := s.evaluate(ctx, pop)
	if err != nil {
		return nil, err
	}
	best := pop[bestIndex(fitnesses)]
	penalty := s.problem.Evaluate(best)

	return &Result{
		Variant:     s.variant,
		Chromosome:  best,
		Fitness:     penalty.Fitness(),
		Penalty:     penalty,
		Generations: int(s.parameters.MaxGenerations),
		Assignment:  s.problem.Decode(best),
		Duration:    time.Since(start),
	}, nil
}

func (s *Scheduler) notify(gen int, pop []Chromosome, fitnesses []int) {
	if s.observer == nil {
		return
	}

	best := bestIndex(fitnesses)
	s.observer.OnGeneration(GenerationReport{
		Variant:     s.variant,
		Generation:  gen,
		Fitnesses:   fitnesses,
		BestFitness: fitnesses[best],
		MeanFitness: meanFitness(fitnesses),
		Best:        pop[best],
	})
}
