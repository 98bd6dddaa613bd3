package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"purchase-orders-backend/db/models"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fakeRunStore struct {
	run        *models.BulkImportRun
	reportPath string
	emails     []models.EmailLog
}

func (f *fakeRunStore) GetImportRun(ctx context.Context, id uuid.UUID) (*models.BulkImportRun, error) {
	if f.run == nil || f.run.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.run, nil
}

func (f *fakeRunStore) UpdateImportRunReport(ctx context.Context, id uuid.UUID, reportPath string) error {
	f.reportPath = reportPath
	return nil
}

func (f *fakeRunStore) LogEmail(ctx context.Context, email *models.EmailLog) error {
	f.emails = append(f.emails, *email)
	return nil
}

type countingReports struct{ sent, failed int }

func (c *countingReports) ReportSent(ok bool) {
	if ok {
		c.sent++
	} else {
		c.failed++
	}
}

func newRun(t *testing.T) *models.BulkImportRun {
	t.Helper()
	details, _ := json.Marshal([]string{"الصف 6: duplicate key"})
	return &models.BulkImportRun{
		ID:           uuid.New(),
		FileName:     "orders.xlsx",
		Total:        10,
		Success:      9,
		Errors:       1,
		ErrorDetails: datatypes.JSON(details),
		Status:       models.BulkImportCompletedWithError,
		CreatedBy:    "ops@example.com",
		CreatedAt:    time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestReportHandlerSendsWorkbook(t *testing.T) {
	run := newRun(t)
	store := &fakeRunStore{run: run}
	counter := &countingReports{}

	var sentTo, attachment string
	h := NewReportHandler(store, func(to, subject, body, path string) error {
		sentTo, attachment = to, path
		return nil
	}, t.TempDir(), counter)

	task, err := NewImportFailureReportTask(run.ID, "ops@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("ProcessTask: %v", err)
	}

	if sentTo != "ops@example.com" || attachment == "" || store.reportPath != attachment {
		t.Fatalf("unexpected delivery to=%q attachment=%q stored=%q", sentTo, attachment, store.reportPath)
	}
	if len(store.emails) != 1 || !store.emails[0].Delivered || *store.emails[0].ImportRunID != run.ID {
		t.Fatalf("unexpected email log %+v", store.emails)
	}
	if counter.sent != 1 {
		t.Errorf("sent = %d, want 1", counter.sent)
	}

	f, err := excelize.OpenFile(attachment)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("الأخطاء")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[1][1] != "الصف 6: duplicate key" {
		t.Fatalf("unexpected failure rows %v", rows)
	}
}

func TestReportHandlerLogsUndeliveredEmail(t *testing.T) {
	run := newRun(t)
	store := &fakeRunStore{run: run}
	h := NewReportHandler(store, func(to, subject, body, path string) error {
		return errors.New("smtp down")
	}, t.TempDir(), nil)

	task, _ := NewImportFailureReportTask(run.ID, "ops@example.com")
	if err := h.ProcessTask(context.Background(), task); err == nil {
		t.Fatal("expected mail error to be returned for retry")
	}
	if len(store.emails) != 1 || store.emails[0].Delivered {
		t.Fatalf("expected an undelivered email log, got %+v", store.emails)
	}
	os.Remove(store.reportPath)
}

func TestReportHandlerSkipsUnknownRun(t *testing.T) {
	h := NewReportHandler(&fakeRunStore{}, nil, t.TempDir(), nil)
	task, _ := NewImportFailureReportTask(uuid.New(), "ops@example.com")

	err := h.ProcessTask(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("err = %v, want SkipRetry", err)
	}
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "1"}, nil
}

func TestSchedulerEnqueuesReport(t *testing.T) {
	fe := &fakeEnqueuer{}
	s := &AsynqReportScheduler{client: fe}
	runID := uuid.New()

	if err := s.EnqueueFailureReport(context.Background(), runID, "ops@example.com"); err != nil {
		t.Fatal(err)
	}
	if len(fe.tasks) != 1 || fe.tasks[0].Type() != TypeImportFailureReport {
		t.Fatalf("unexpected tasks %v", fe.tasks)
	}
	var p ImportReportPayload
	if err := json.Unmarshal(fe.tasks[0].Payload(), &p); err != nil || p.RunID != runID {
		t.Fatalf("payload = %+v, err %v", p, err)
	}
}
