package seed

import (
	"math/rand"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/utils"
)

// 内置的示例数据：三门课程、三个时间段
var SampleCourses = []string{"CSE110", "MAT110", "PHY112"}

const SampleTimeslots = 3

func SampleRequest() *domain.SolveRequest {
	courses := make([]string, len(SampleCourses))
	copy(courses, SampleCourses)

	return &domain.SolveRequest{
		Courses:   courses,
		Timeslots: SampleTimeslots,
	}
}

// RandomRequest 随机生成 numCourses 门课程，时间段数量为 timeslots
func RandomRequest(rng *rand.Rand, numCourses int, timeslots int32) *domain.SolveRequest {
	return &domain.SolveRequest{
		Courses:   utils.GenerateRandomCourses(rng, numCourses),
		Timeslots: timeslots,
	}
}
