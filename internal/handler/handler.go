package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/metrics"
)

// JobStore 由 repository.Repository 实现
type JobStore interface {
	SaveSolveJob(job *domain.SolveJob) error
	GetSolveJobByID(id string) (*domain.SolveJob, error)
}

// JobPublisher 由 *amqp.Channel 实现
type JobPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Handler struct {
	validate     *validator.Validate
	config       *config.Config
	jobStore     JobStore
	translator   ut.Translator
	solveChannel JobPublisher
	metrics      *metrics.Metrics

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, store JobStore, solveCh JobPublisher, m *metrics.Metrics) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:     validate,
		config:       cfg,
		jobStore:     store,
		translator:   trans,
		solveChannel: solveCh,
		metrics:      m,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Method("GET", "/metrics", h.metrics.Handler())

	h.Mux.Route("/timetables", func(r chi.Router) {
		r.Get("/variants", h.GetVariants)
		r.Post("/solve", h.SolveTimetable) // 同步求解，适合小规模的问题

		r.Route("/jobs", func(r chi.Router) {
			r.Post("/", h.CreateSolveJob)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.solveJob)
				r.Get("/", h.GetSolveJob)
			})
		})
	})
}
