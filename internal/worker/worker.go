package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/repository"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/utils"
)

type JobStore interface {
	SaveSolveJob(job *domain.SolveJob) error
	GetSolveJobByID(id string) (*domain.SolveJob, error)
}

// ErrMalformedMessage 表示消息本身有问题，重新入队也没有意义
var ErrMalformedMessage = errors.New("无法解析的求解任务消息")

type Worker struct {
	store      JobStore
	defaults   scheduler.Parameters
	limits     utils.SolveLimits
	jobTimeout time.Duration // 0 表示不限制
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

type Option func(wk *Worker)

func WithLimits(limits utils.SolveLimits) Option {
	return func(wk *Worker) { wk.limits = limits }
}

func WithJobTimeout(timeout time.Duration) Option {
	return func(wk *Worker) { wk.jobTimeout = timeout }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(wk *Worker) { wk.metrics = m }
}

func New(store JobStore, defaults scheduler.Parameters, logger *slog.Logger, opts ...Option) *Worker {
	wk := &Worker{
		store:    store,
		defaults: defaults,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(wk)
	}
	return wk
}

// Handle 处理一条消息。返回 nil 表示应当确认消息；
// 返回 ErrMalformedMessage 表示应当丢弃；其他错误表示可以重新入队
func (wk *Worker) Handle(ctx context.Context, body []byte) error {
	msg := domain.SolveJobMessage{}
	if err := json.Unmarshal(body, &msg); err != nil {
		return errors.Join(ErrMalformedMessage, err)
	}

	job, err := wk.store.GetSolveJobByID(msg.JobID)
	if err != nil {
		if errors.Is(err, repository.ErrSolveJobNotFound) {
			// 任务已经过期，按消息中的内容重建
			job = &domain.SolveJob{
				ID:        msg.JobID,
				Request:   msg.Request,
				CreatedAt: time.Now(),
			}
		} else {
			return err
		}
	}

	switch job.Status {
	case domain.SolveJobStatusDone, domain.SolveJobStatusFailed:
		// 重复投递的消息
		wk.logger.Info("任务已经处理过", "jobID", job.ID, "status", job.Status)
		return nil
	}

	// 消息可能不是经过 API 校验后投递的
	if err := utils.ValidateSolveRequest(&msg.Request, wk.limits); err != nil {
		return wk.fail(job, err)
	}

	job.Status = domain.SolveJobStatusRunning
	if err := wk.store.SaveSolveJob(job); err != nil {
		return err
	}

	if wk.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wk.jobTimeout)
		defer cancel()
	}

	start := time.Now()
	res, err := wk.solve(ctx, &msg.Request)
	if wk.metrics != nil {
		variant := msg.Request.Variant
		if variant == "" {
			variant = scheduler.VariantRouletteSinglePoint
		}
		wk.metrics.ObserveRun(variant, err, time.Since(start))
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// worker 正在退出，任务交给下一个 worker
			job.Status = domain.SolveJobStatusPending
			if saveErr := wk.store.SaveSolveJob(job); saveErr != nil {
				wk.logger.Error("无法更新任务状态", "jobID", job.ID, "error", saveErr)
			}
			return err
		}

		return wk.fail(job, err)
	}

	wk.logger.Info("求解完成", "jobID", job.ID, "variant", res.Variant, "fitness", res.Fitness, "feasible", res.Feasible)
	job.Status = domain.SolveJobStatusDone
	job.Result = res
	return wk.store.SaveSolveJob(job)
}

func (wk *Worker) solve(ctx context.Context, req *domain.SolveRequest) (*domain.SolveResult, error) {
	var observer scheduler.Observer = scheduler.NewLogObserver(wk.logger)
	if wk.metrics != nil {
		observer = scheduler.Observers(observer, wk.metrics)
	}
	return scheduler.Solve(ctx, req, wk.defaults, scheduler.WithObserver(observer))
}

// 除了取消以外的求解错误，重新入队也不会得到不同的结果
func (wk *Worker) fail(job *domain.SolveJob, err error) error {
	wk.logger.Error("求解失败", "jobID", job.ID, "error", err)
	job.Status = domain.SolveJobStatusFailed
	job.Error = err.Error()
	return wk.store.SaveSolveJob(job)
}
