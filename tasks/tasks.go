package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	TypeImportFailureReport = "purchase_orders:import_failure_report"

	QueueReports = "reports"
)

// ImportReportPayload identifies the run whose failures are reported and who receives the report.
type ImportReportPayload struct {
	RunID     uuid.UUID `json:"run_id"`
	Recipient string    `json:"recipient"`
}

func NewImportFailureReportTask(runID uuid.UUID, recipient string) (*asynq.Task, error) {
	payload, err := json.Marshal(ImportReportPayload{RunID: runID, Recipient: recipient})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeImportFailureReport, payload,
		asynq.Queue(QueueReports),
		asynq.MaxRetry(3),
		asynq.Timeout(2*time.Minute),
	), nil
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqReportScheduler queues failure reports on redis.
type AsynqReportScheduler struct {
	client enqueuer
}

func NewAsynqReportScheduler(client *asynq.Client) *AsynqReportScheduler {
	return &AsynqReportScheduler{client: client}
}

// EnqueueFailureReport implements services.ReportScheduler. One task per run
// is kept for a day.
func (s *AsynqReportScheduler) EnqueueFailureReport(ctx context.Context, runID uuid.UUID, recipient string) error {
	task, err := NewImportFailureReportTask(runID, recipient)
	if err != nil {
		return err
	}
	if _, err := s.client.EnqueueContext(ctx, task, asynq.TaskID(runID.String()), asynq.Retention(24*time.Hour)); err != nil {
		return fmt.Errorf("enqueue failure report: %w", err)
	}
	return nil
}
