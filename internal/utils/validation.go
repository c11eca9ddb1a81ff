package utils

import (
	"errors"
	"fmt"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

// SolveLimits: 单次求解的规模上限，字段为 0 表示不限制
type SolveLimits struct {
	MaxCourses        int32
	MaxTimeslots      int32
	MaxGenerations    int32
	MaxPopulationSize int32
}

func SolveLimitsFromConfig(cfg *config.Config) SolveLimits {
	return SolveLimits{
		MaxCourses:        cfg.Scheduler.Limits.MaxCourses,
		MaxTimeslots:      cfg.Scheduler.Limits.MaxTimeslots,
		MaxGenerations:    cfg.Scheduler.Limits.MaxGenerations,
		MaxPopulationSize: cfg.Scheduler.Limits.MaxPopulationSize,
	}
}

func ValidateSolveRequest(req *domain.SolveRequest, limits SolveLimits) error {
	if len(req.Courses) == 0 {
		return errors.New("课程列表不能为空")
	}
	if req.Timeslots <= 0 {
		return errors.New("时间段数量必须大于 0")
	}

	// 限制规模，这个算法不适合大规模的排课问题
	if limits.MaxCourses > 0 && len(req.Courses) > int(limits.MaxCourses) {
		return fmt.Errorf("课程数量 %d 超过上限 %d", len(req.Courses), limits.MaxCourses)
	}
	if limits.MaxTimeslots > 0 && req.Timeslots > limits.MaxTimeslots {
		return fmt.Errorf("时间段数量 %d 超过上限 %d", req.Timeslots, limits.MaxTimeslots)
	}
	if limits.MaxGenerations > 0 && req.MaxGenerations > limits.MaxGenerations {
		return fmt.Errorf("迭代次数 %d 超过上限 %d", req.MaxGenerations, limits.MaxGenerations)
	}
	if limits.MaxPopulationSize > 0 && req.PopulationSize > limits.MaxPopulationSize {
		return fmt.Errorf("种群大小 %d 超过上限 %d", req.PopulationSize, limits.MaxPopulationSize)
	}

	seen := make(map[string]bool)
	for i, course := range req.Courses {
		if course == "" {
			return fmt.Errorf("第 %d 门课程的代码为空", i+1)
		}
		if seen[course] {
			return fmt.Errorf("课程 %s 重复", course)
		}
		seen[course] = true
	}

	return nil
}

// ValidateSolveResult 检查结果是否是一个可行的课表：每门课程恰好一个时间段，且任意时间段最多一门课程
func ValidateSolveResult(result *domain.SolveResult, timeslots int) error {
	occupied := make(map[int]string)

	for _, entry := range result.Timetable {
		if len(entry.Timeslots) != 1 {
			return fmt.Errorf("课程 %s 被安排了 %d 次", entry.Course, len(entry.Timeslots))
		}

		slot := entry.Timeslots[0]
		if slot < 0 || slot >= timeslots {
			return fmt.Errorf("课程 %s 的时间段 %d 超出范围", entry.Course, slot)
		}
		if other, exists := occupied[slot]; exists {
			return fmt.Errorf("课程 %s 和课程 %s 在时间段 %d 冲突", other, entry.Course, slot)
		}
		occupied[slot] = entry.Course
	}

	return nil
}
