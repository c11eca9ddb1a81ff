package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

func TestValidateSolveRequest(t *testing.T) {
	limits := SolveLimits{MaxCourses: 3, MaxTimeslots: 4, MaxGenerations: 100, MaxPopulationSize: 50}

	tests := []struct {
		name    string
		req     domain.SolveRequest
		wantErr bool
	}{
		{"valid", domain.SolveRequest{Courses: []string{"CSE110", "MAT110"}, Timeslots: 3}, false},
		{"empty courses", domain.SolveRequest{Timeslots: 3}, true},
		{"zero timeslots", domain.SolveRequest{Courses: []string{"CSE110"}}, true},
		{"too many courses", domain.SolveRequest{Courses: []string{"A", "B", "C", "D"}, Timeslots: 3}, true},
		{"too many timeslots", domain.SolveRequest{Courses: []string{"A"}, Timeslots: 5}, true},
		{"too many generations", domain.SolveRequest{Courses: []string{"A"}, Timeslots: 1, MaxGenerations: 101}, true},
		{"population at limit", domain.SolveRequest{Courses: []string{"A"}, Timeslots: 1, PopulationSize: 50}, false},
		{"too large population", domain.SolveRequest{Courses: []string{"A"}, Timeslots: 1, PopulationSize: math.MaxInt32}, true},
		{"empty course code", domain.SolveRequest{Courses: []string{"A", ""}, Timeslots: 2}, true},
		{"duplicate course", domain.SolveRequest{Courses: []string{"A", "A"}, Timeslots: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSolveRequest(&tt.req, limits)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSolveLimitsFromConfig(t *testing.T) {
	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	limits := SolveLimitsFromConfig(cfg)
	assert.Equal(t, cfg.Scheduler.Limits.MaxCourses, limits.MaxCourses)
	assert.Equal(t, cfg.Scheduler.Limits.MaxTimeslots, limits.MaxTimeslots)
	assert.Equal(t, cfg.Scheduler.Limits.MaxGenerations, limits.MaxGenerations)
	assert.Equal(t, int32(1000), limits.MaxPopulationSize)

	err = ValidateSolveRequest(&domain.SolveRequest{
		Courses:        []string{"CSE110"},
		Timeslots:      1,
		PopulationSize: math.MaxInt32,
	}, limits)
	assert.Error(t, err)
}

func TestValidateSolveRequestWithoutLimits(t *testing.T) {
	courses := make([]string, 200)
	for i := range courses {
		courses[i] = GenerateCourseCodeFromName("数据结构", i)
	}

	assert.NoError(t, ValidateSolveRequest(&domain.SolveRequest{Courses: courses, Timeslots: 500}, SolveLimits{}))
}

func TestValidateSolveResult(t *testing.T) {
	tests := []struct {
		name      string
		timetable []domain.TimetableEntry
		wantErr   bool
	}{
		{
			name: "feasible",
			timetable: []domain.TimetableEntry{
				{Course: "CSE110", Timeslots: []int{2}},
				{Course: "MAT110", Timeslots: []int{0}},
			},
		},
		{
			name: "course not scheduled",
			timetable: []domain.TimetableEntry{
				{Course: "CSE110", Timeslots: []int{}},
			},
			wantErr: true,
		},
		{
			name: "course scheduled twice",
			timetable: []domain.TimetableEntry{
				{Course: "CSE110", Timeslots: []int{0, 1}},
			},
			wantErr: true,
		},
		{
			name: "timeslot conflict",
			timetable: []domain.TimetableEntry{
				{Course: "CSE110", Timeslots: []int{1}},
				{Course: "MAT110", Timeslots: []int{1}},
			},
			wantErr: true,
		},
		{
			name: "timeslot out of range",
			timetable: []domain.TimetableEntry{
				{Course: "CSE110", Timeslots: []int{3}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSolveResult(&domain.SolveResult{Timetable: tt.timetable}, 3)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
