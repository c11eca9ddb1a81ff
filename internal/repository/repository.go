package repository

import (
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/config"
)

var ErrSolveJobNotFound = errors.New("求解任务不存在")

type Repository struct {
	cfg         *config.Config
	redisClient *redis.Client
}

func NewRepository(cfg *config.Config, rdb *redis.Client) *Repository {
	return &Repository{
		cfg:         cfg,
		redisClient: rdb,
	}
}
