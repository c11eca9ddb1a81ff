package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/seed"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/utils"
)

func main() {
	var variant string
	var random bool
	var n int
	var timeslots int
	var seedValue int64
	var verbose bool

	flag.StringVar(&variant, "variant", "all", "要运行的算法变体 (all, roulette_single_point, tournament_single_point, roulette_two_point)")
	flag.BoolVar(&random, "random", false, "使用随机生成的课程代替内置示例")
	flag.IntVar(&n, "n", 5, "随机生成的课程数量")
	flag.IntVar(&timeslots, "t", 5, "随机问题的时间段数量")
	flag.Int64Var(&seedValue, "seed", 0, "随机数种子，0 表示使用当前时间")
	flag.BoolVar(&verbose, "verbose", false, "输出每一代的种群情况")
	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	// 读取配置文件（只用到默认的算法参数）
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if seedValue == 0 {
		seedValue = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seedValue))

	// 构造问题
	req := seed.SampleRequest()
	if random {
		if n <= 0 || timeslots <= 0 {
			logger.Error("请输入合法的课程数量和时间段数量")
			os.Exit(1)
		}
		req = seed.RandomRequest(rng, n, int32(timeslots))
	}

	if err := utils.ValidateSolveRequest(req, utils.SolveLimitsFromConfig(cfg)); err != nil {
		logger.Error("问题不合法", slog.String("error", err.Error()))
		os.Exit(1)
	}

	variants := scheduler.Variants
	if variant != "all" {
		variants = []string{variant}
	}

	logger.Info("开始求解", "courses", req.Courses, "timeslots", req.Timeslots, "seed", seedValue)

	failed := false
	for _, name := range variants {
		// 每个变体使用独立的随机数种子，便于复现
		s := rng.Int63()
		r := *req
		r.Variant = name
		r.Seed = &s

		res, err := scheduler.Solve(context.Background(), &r, scheduler.ParametersFromConfig(cfg),
			scheduler.WithObserver(scheduler.NewLogObserver(logger)))
		if err != nil {
			logger.Error("求解失败", "variant", name, "error", err)
			failed = true
			continue
		}

		logResult(logger, res, int(req.Timeslots))
	}

	if failed {
		os.Exit(1)
	}
}

func logResult(logger *slog.Logger, res *domain.SolveResult, timeslots int) {
	logger.Info("最佳染色体",
		"variant", res.Variant,
		"chromosome", res.Chromosome,
		"fitness", res.Fitness,
		"overlapPenalty", res.OverlapPenalty,
		"courseCountPenalty", res.CourseCountPenalty,
		"durationMs", res.DurationMS,
	)

	if err := utils.ValidateSolveResult(res, timeslots); err != nil {
		logger.Warn("结果不是可行的课表", "variant", res.Variant, "reason", err)
		return
	}
	for _, entry := range res.Timetable {
		logger.Info("课程安排", "variant", res.Variant, "course", entry.Course, "timeslot", entry.Timeslots[0])
	}
}
