package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

func (h *Handler) CreateSolveJob(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseSolveRequest(w, r)
	if !ok {
		return
	}

	job := &domain.SolveJob{
		ID:        uuid.NewString(),
		Status:    domain.SolveJobStatusPending,
		Request:   *req,
		CreatedAt: time.Now(),
	}

	// 先保存任务，保证 worker 拿到消息时任务已经存在
	if err := h.jobStore.SaveSolveJob(job); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	body, err := json.Marshal(domain.SolveJobMessage{
		JobID:   job.ID,
		Request: job.Request,
	})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.solveChannel.PublishWithContext(
		ctx,
		"",
		h.config.RabbitMQ.Queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	); err != nil {
		// 投递失败的任务不会再被执行，直接标记为失败
		job.Status = domain.SolveJobStatusFailed
		job.Error = "任务投递失败"
		if saveErr := h.jobStore.SaveSolveJob(job); saveErr != nil {
			slog.Error("无法更新任务状态", "jobID", job.ID, "error", saveErr)
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "求解任务已提交", job)
}

func (h *Handler) GetSolveJob(w http.ResponseWriter, r *http.Request) {
	job := r.Context().Value(SolveJobCtx).(*domain.SolveJob)

	h.successResponse(w, r, "获取求解任务成功", job)
}
