package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/scheduler"
)

// Metrics: 描述求解过程的 Prometheus 指标
type Metrics struct {
	registry    *prometheus.Registry
	handler     http.Handler
	generations *prometheus.CounterVec
	bestFitness *prometheus.GaugeVec
	runs        *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
}

// 指标注册在独立的 registry 上，不使用全局的 DefaultRegisterer
func New() *Metrics {
	registry := prometheus.NewRegistry()

	generations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_generations_total",
		Help: "Total number of evaluated generations",
	}, []string{"variant"})

	bestFitness := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "scheduler_generation_best_fitness",
		Help: "Best fitness of the most recently evaluated generation",
	}, []string{"variant"})

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_runs_total",
		Help: "Total number of solver runs by outcome",
	}, []string{"variant", "status"})

	runDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scheduler_run_duration_seconds",
		Help:    "Duration of solver runs in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"variant"})

	registry.MustRegister(generations, bestFitness, runs, runDuration)

	return &Metrics{
		registry:    registry,
		handler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		generations: generations,
		bestFitness: bestFitness,
		runs:        runs,
		runDuration: runDuration,
	}
}

func (m *Metrics) Handler() http.Handler {
	return m.handler
}

// OnGeneration 实现 scheduler.Observer
func (m *Metrics) OnGeneration(report scheduler.GenerationReport) {
	m.generations.WithLabelValues(report.Variant).Inc()
	m.bestFitness.WithLabelValues(report.Variant).Set(float64(report.BestFitness))
}

// ObserveRun 记录一次完整求解的结果与耗时
func (m *Metrics) ObserveRun(variant string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.runs.WithLabelValues(variant, status).Inc()
	m.runDuration.WithLabelValues(variant).Observe(duration.Seconds())
}
