package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/repository"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/scheduler"
)

type fakeJobStore struct {
	mu   sync.Mutex
	jobs map[string]domain.SolveJob
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: make(map[string]domain.SolveJob)}
}

func (s *fakeJobStore) SaveSolveJob(job *domain.SolveJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = *job
	return nil
}

func (s *fakeJobStore) GetSolveJobByID(id string) (*domain.SolveJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, repository.ErrSolveJobNotFound
	}
	return &job, nil
}

type fakePublisher struct {
	err      error
	key      string
	messages []amqp.Publishing
}

func (p *fakePublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if p.err != nil {
		return p.err
	}
	p.key = key
	p.messages = append(p.messages, msg)
	return nil
}

type testResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestHandler(t *testing.T) (*Handler, *fakeJobStore, *fakePublisher) {
	t.Helper()

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	cfg.Scheduler.Limits.MaxCourses = 5

	store := newFakeJobStore()
	pub := &fakePublisher{}

	h, err := NewHandler(cfg, store, pub, metrics.New())
	require.NoError(t, err)
	h.RegisterRoutes()

	return h, store, pub
}

func doRequest(t *testing.T, h *Handler, method, path string, body any) (int, testResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))

	var resp testResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec.Code, resp
}

func TestGetVariants(t *testing.T) {
	h, _, _ := newTestHandler(t)

	code, resp := doRequest(t, h, http.MethodGet, "/timetables/variants", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)

	var variants []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &variants))
	require.Len(t, variants, len(scheduler.Variants))
	for i, v := range variants {
		assert.Equal(t, scheduler.Variants[i], v.Name)
	}
}

func TestSolveTimetable(t *testing.T) {
	h, _, _ := newTestHandler(t)

	code, resp := doRequest(t, h, http.MethodPost, "/timetables/solve", map[string]any{
		"courses":        []string{"CSE110", "MAT110", "PHY112"},
		"timeslots":      3,
		"variant":        scheduler.VariantRouletteTwoPoint,
		"maxGenerations": 30,
		"seed":           42,
	})
	assert.Equal(t, http.StatusOK, code)
	require.True(t, resp.Success, resp.Message)
	assert.Equal(t, "自动排课成功", resp.Message)

	var res domain.SolveResult
	require.NoError(t, json.Unmarshal(resp.Data, &res))
	assert.Equal(t, scheduler.VariantRouletteTwoPoint, res.Variant)
	assert.Equal(t, 30, res.Generations)
	assert.Len(t, res.Chromosome, 9)
	assert.Len(t, res.Timetable, 3)
	assert.Equal(t, res.Fitness == 0, res.Feasible)
}

func TestSolveTimetableUsesDefaults(t *testing.T) {
	h, _, _ := newTestHandler(t)

	_, resp := doRequest(t, h, http.MethodPost, "/timetables/solve", map[string]any{
		"courses":   []string{"CSE110", "MAT110"},
		"timeslots": 2,
	})
	require.True(t, resp.Success, resp.Message)

	var res domain.SolveResult
	require.NoError(t, json.Unmarshal(resp.Data, &res))
	assert.Equal(t, scheduler.VariantRouletteSinglePoint, res.Variant)
	assert.Equal(t, int(h.config.Scheduler.MaxGenerations), res.Generations)
}

func TestSolveTimetableRejectsInvalidRequest(t *testing.T) {
	h, _, _ := newTestHandler(t)

	tests := []struct {
		name string
		body any
	}{
		{"malformed json", `{"courses": [`},
		{"unknown field", `{"courses": ["CSE110"], "timeslots": 1, "rooms": 3}`},
		{"wrong type", `{"courses": "CSE110", "timeslots": 1}`},
		{"missing courses", map[string]any{"timeslots": 3}},
		{"missing timeslots", map[string]any{"courses": []string{"CSE110"}}},
		{"duplicate courses", map[string]any{"courses": []string{"CSE110", "CSE110"}, "timeslots": 2}},
		{"empty course", map[string]any{"courses": []string{"CSE110", ""}, "timeslots": 2}},
		{"unknown variant", map[string]any{"courses": []string{"CSE110"}, "timeslots": 1, "variant": "annealing"}},
		{"population too small", map[string]any{"courses": []string{"CSE110"}, "timeslots": 1, "populationSize": 1}},
		{"mutation rate too large", map[string]any{"courses": []string{"CSE110"}, "timeslots": 1, "mutationRate": 1.5}},
		{"population too large", map[string]any{"courses": []string{"CSE110"}, "timeslots": 1, "populationSize": math.MaxInt32}},
		{"too many courses", map[string]any{"courses": []string{"A1", "A2", "A3", "A4", "A5", "A6"}, "timeslots": 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := doRequest(t, h, http.MethodPost, "/timetables/solve", tt.body)
			assert.Equal(t, http.StatusOK, code)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestCreateSolveJob(t *testing.T) {
	h, store, pub := newTestHandler(t)

	code, resp := doRequest(t, h, http.MethodPost, "/timetables/jobs", map[string]any{
		"courses":   []string{"CSE110", "MAT110", "PHY112"},
		"timeslots": 3,
	})
	assert.Equal(t, http.StatusOK, code)
	require.True(t, resp.Success, resp.Message)
	assert.Equal(t, "求解任务已提交", resp.Message)

	var job domain.SolveJob
	require.NoError(t, json.Unmarshal(resp.Data, &job))
	assert.Equal(t, domain.SolveJobStatusPending, job.Status)
	_, err := uuid.Parse(job.ID)
	assert.NoError(t, err)

	stored, err := store.GetSolveJobByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SolveJobStatusPending, stored.Status)

	// 消息投递到配置中的队列
	assert.Equal(t, "solve_queue", pub.key)
	require.Len(t, pub.messages, 1)
	assert.Equal(t, amqp.Persistent, pub.messages[0].DeliveryMode)

	var msg domain.SolveJobMessage
	require.NoError(t, json.Unmarshal(pub.messages[0].Body, &msg))
	assert.Equal(t, job.ID, msg.JobID)
	assert.Equal(t, []string{"CSE110", "MAT110", "PHY112"}, msg.Request.Courses)
	assert.Equal(t, scheduler.VariantRouletteSinglePoint, msg.Request.Variant)
	require.NotNil(t, msg.Request.MutationRate)
	assert.Equal(t, h.config.Scheduler.MutationRate, *msg.Request.MutationRate)
}

func TestCreateSolveJobRejectsOversizedPopulation(t *testing.T) {
	h, store, pub := newTestHandler(t)

	_, resp := doRequest(t, h, http.MethodPost, "/timetables/jobs", map[string]any{
		"courses":        []string{"CSE110"},
		"timeslots":      1,
		"populationSize": h.config.Scheduler.Limits.MaxPopulationSize + 1,
	})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "种群大小")

	// 不合法的请求不会保存也不会投递
	assert.Empty(t, store.jobs)
	assert.Empty(t, pub.messages)
}

func TestCreateSolveJobPublishFailure(t *testing.T) {
	h, store, pub := newTestHandler(t)
	pub.err = errors.New("channel closed")

	code, resp := doRequest(t, h, http.MethodPost, "/timetables/jobs", map[string]any{
		"courses":   []string{"CSE110"},
		"timeslots": 1,
	})
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.False(t, resp.Success)

	require.Len(t, store.jobs, 1)
	for _, job := range store.jobs {
		assert.Equal(t, domain.SolveJobStatusFailed, job.Status)
		assert.NotEmpty(t, job.Error)
	}
}

func TestGetSolveJob(t *testing.T) {
	h, store, _ := newTestHandler(t)

	job := &domain.SolveJob{
		ID:      uuid.NewString(),
		Status:  domain.SolveJobStatusDone,
		Request: domain.SolveRequest{Courses: []string{"CSE110"}, Timeslots: 1},
		Result:  &domain.SolveResult{Chromosome: "1", Feasible: true},
	}
	require.NoError(t, store.SaveSolveJob(job))

	code, resp := doRequest(t, h, http.MethodGet, "/timetables/jobs/"+job.ID, nil)
	assert.Equal(t, http.StatusOK, code)
	require.True(t, resp.Success, resp.Message)

	var got domain.SolveJob
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, domain.SolveJobStatusDone, got.Status)
	require.NotNil(t, got.Result)
	assert.True(t, got.Result.Feasible)
}

func TestGetSolveJobErrors(t *testing.T) {
	h, _, _ := newTestHandler(t)

	_, resp := doRequest(t, h, http.MethodGet, "/timetables/jobs/not-a-uuid", nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "任务ID无效", resp.Message)

	_, resp = doRequest(t, h, http.MethodGet, "/timetables/jobs/"+uuid.NewString(), nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "求解任务不存在或已过期", resp.Message)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _, _ := newTestHandler(t)

	_, resp := doRequest(t, h, http.MethodPost, "/timetables/solve", map[string]any{
		"courses":        []string{"CSE110", "MAT110"},
		"timeslots":      2,
		"maxGenerations": 5,
	})
	require.True(t, resp.Success, resp.Message)

	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `scheduler_runs_total{status="success",variant="roulette_single_point"} 1`)
	assert.Contains(t, rec.Body.String(), "scheduler_generations_total")
}
