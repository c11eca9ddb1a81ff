package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/utils"
)

type solveRequest struct {
	Courses        []string `json:"courses" validate:"required,min=1,unique,dive,required"`
	Timeslots      int32    `json:"timeslots" validate:"required,min=1"`
	Variant        string   `json:"variant" validate:"omitempty,oneof=roulette_single_point tournament_single_point roulette_two_point"`
	PopulationSize int32    `json:"populationSize" validate:"omitempty,min=2"`
	MaxGenerations int32    `json:"maxGenerations" validate:"omitempty,min=1"`
	MutationRate   *float64 `json:"mutationRate" validate:"omitempty,min=0,max=1"`
	TournamentSize int32    `json:"tournamentSize" validate:"omitempty,min=1"`
	Seed           *int64   `json:"seed"`
}

// 读取并校验求解请求，未填写的参数使用配置中的默认值补全
// 返回 false 时已经写入了响应
func (h *Handler) parseSolveRequest(w http.ResponseWriter, r *http.Request) (*domain.SolveRequest, bool) {
	var req solveRequest
	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return nil, false
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return nil, false
	}

	defaults := scheduler.ParametersFromConfig(h.config)
	mutationRate := defaults.MutationRate
	if req.MutationRate != nil {
		mutationRate = *req.MutationRate
	}

	solveReq := &domain.SolveRequest{
		Courses:        req.Courses,
		Timeslots:      req.Timeslots,
		Variant:        req.Variant,
		PopulationSize: req.PopulationSize,
		MaxGenerations: req.MaxGenerations,
		MutationRate:   &mutationRate,
		TournamentSize: req.TournamentSize,
		Seed:           req.Seed,
	}
	if solveReq.Variant == "" {
		solveReq.Variant = scheduler.VariantRouletteSinglePoint
	}
	if solveReq.PopulationSize == 0 {
		solveReq.PopulationSize = defaults.PopulationSize
	}
	if solveReq.MaxGenerations == 0 {
		solveReq.MaxGenerations = defaults.MaxGenerations
	}
	if solveReq.TournamentSize == 0 {
		solveReq.TournamentSize = defaults.TournamentSize
	}

	if err := utils.ValidateSolveRequest(solveReq, utils.SolveLimitsFromConfig(h.config)); err != nil {
		h.badRequest(w, r, err)
		return nil, false
	}

	return solveReq, true
}

func (h *Handler) GetVariants(w http.ResponseWriter, r *http.Request) {
	type variant struct {
		Name      string `json:"name"`
		Selection string `json:"selection"`
		Crossover string `json:"crossover"`
	}

	variants := []variant{
		{Name: scheduler.VariantRouletteSinglePoint, Selection: "roulette", Crossover: "single_point"},
		{Name: scheduler.VariantTournamentSinglePoint, Selection: "tournament", Crossover: "single_point"},
		{Name: scheduler.VariantRouletteTwoPoint, Selection: "roulette", Crossover: "two_point"},
	}

	h.successResponse(w, r, "获取算法变体成功", variants)
}

func (h *Handler) SolveTimetable(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseSolveRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Server.SolveTimeout)*time.Second)
	defer cancel()

	start := time.Now()
	res, err := scheduler.Solve(ctx, req, scheduler.ParametersFromConfig(h.config), scheduler.WithObserver(h.metrics))
	h.metrics.ObserveRun(req.Variant, err, time.Since(start))
	if err != nil {
		switch {
		case errors.Is(err, scheduler.ErrDegeneratePopulation):
			h.errorResponse(w, r, "种群退化，本次求解失败")
		case errors.Is(err, scheduler.ErrInvalidParameters), errors.Is(err, scheduler.ErrInvalidProblem):
			h.badRequest(w, r, err)
		case errors.Is(err, context.DeadlineExceeded):
			h.errorResponse(w, r, "求解超时，请减少迭代次数或改用异步任务")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "自动排课成功", res)
}
