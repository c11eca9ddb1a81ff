package scheduler

import (
	"context"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/utils"
)

func ParametersFromConfig(cfg *config.Config) Parameters {
	return Parameters{
		PopulationSize: cfg.Scheduler.PopulationSize,
		MaxGenerations: cfg.Scheduler.MaxGenerations,
		MutationRate:   cfg.Scheduler.MutationRate,
		TournamentSize: cfg.Scheduler.TournamentSize,
		Workers:        cfg.Scheduler.Workers,
	}
}

// ParametersFromRequest 用请求中的参数覆盖 defaults 中对应的值
func ParametersFromRequest(req *domain.SolveRequest, defaults Parameters) Parameters {
	parameters := defaults
	if req.PopulationSize > 0 {
		parameters.PopulationSize = req.PopulationSize
	}
	if req.MaxGenerations > 0 {
		parameters.MaxGenerations = req.MaxGenerations
	}
	if req.MutationRate != nil {
		parameters.MutationRate = *req.MutationRate
	}
	if req.TournamentSize > 0 {
		parameters.TournamentSize = req.TournamentSize
	}
	return parameters
}

// Solve 根据请求构建对应变体的 Scheduler 并求解，handler 和 worker 共用
func Solve(ctx context.Context, req *domain.SolveRequest, defaults Parameters, opts ...Option) (*domain.SolveResult, error) {
	problem, err := NewProblem(req.Courses, int(req.Timeslots))
	if err != nil {
		return nil, err
	}

	variant := req.Variant
	if variant == "" {
		variant = VariantRouletteSinglePoint
	}

	if req.Seed != nil {
		opts = append([]Option{WithSeed(*req.Seed)}, opts...)
	}

	s, err := NewVariant(variant, ParametersFromRequest(req, defaults), problem, opts...)
	if err != nil {
		return nil, err
	}

	res, err := s.Schedule(ctx)
	if err != nil {
		return nil, err
	}

	return ToSolveResult(res, problem), nil
}

func ToSolveResult(res *Result, problem *Problem) *domain.SolveResult {
	timetable := make([]domain.TimetableEntry, len(res.Assignment))
	for i, a := range res.Assignment {
		timetable[i] = domain.TimetableEntry{
			Course:    a.Course,
			Timeslots: a.Timeslots,
		}
	}

	result := &domain.SolveResult{
		Variant:            res.Variant,
		Chromosome:         res.Chromosome.String(),
		Fitness:            res.Fitness,
		OverlapPenalty:     res.Penalty.Overlap,
		CourseCountPenalty: res.Penalty.CourseCount,
		Generations:        res.Generations,
		Timetable:          timetable,
		DurationMS:         res.Duration.Milliseconds(),
	}

	// 还需要检查一下结果是否满足约束条件
	result.Feasible = utils.ValidateSolveResult(result, problem.NumTimeslots()) == nil

	return result
}
