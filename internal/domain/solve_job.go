package domain

import "time"

type SolveJobStatus string

const (
	SolveJobStatusPending SolveJobStatus = "pending"
	SolveJobStatusRunning SolveJobStatus = "running"
	SolveJobStatusDone    SolveJobStatus = "done"
	SolveJobStatusFailed  SolveJobStatus = "failed"
)

type SolveJob struct {
	ID        string         `json:"id"`
	Status    SolveJobStatus `json:"status"`
	Request   SolveRequest   `json:"request"`
	Result    *SolveResult   `json:"result"`
	Error     string         `json:"error,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// SolveJobMessage: 投递到消息队列中的求解任务
type SolveJobMessage struct {
	JobID   string       `json:"jobID"`
	Request SolveRequest `json:"request"`
}
