package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

func solveJobKey(id string) string {
	return fmt.Sprintf("solve_job_%s", id)
}

// SaveSolveJob 写入任务的最新状态，过期时间每次写入都会重置
func (r *Repository) SaveSolveJob(job *domain.SolveJob) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Redis.OperationExpiration)*time.Second)
	defer cancel()

	job.UpdatedAt = time.Now()

	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}

	return r.redisClient.Set(ctx, solveJobKey(job.ID), payload, time.Duration(r.cfg.Job.Expiration)*time.Second).Err()
}

func (r *Repository) GetSolveJobByID(id string) (*domain.SolveJob, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Redis.OperationExpiration)*time.Second)
	defer cancel()

	payload, err := r.redisClient.Get(ctx, solveJobKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSolveJobNotFound
		}
		return nil, err
	}

	job := &domain.SolveJob{}
	if err := json.Unmarshal(payload, job); err != nil {
		return nil, err
	}

	return job, nil
}
