package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"time"

	"purchase-orders-backend/config"
	"purchase-orders-backend/db/models"
	"purchase-orders-backend/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RunStore is the part of the purchase order repository the report needs.
type RunStore interface {
	GetImportRun(ctx context.Context, id uuid.UUID) (*models.BulkImportRun, error)
	UpdateImportRunReport(ctx context.Context, id uuid.UUID, reportPath string) error
	LogEmail(ctx context.Context, email *models.EmailLog) error
}

// MailerFunc sends an HTML mail with an optional attachment.
type MailerFunc func(to, subject, htmlBody, attachmentPath string) error

// ReportCounter observes report outcomes.
type ReportCounter interface {
	ReportSent(ok bool)
}

// ReportHandler builds the failure workbook of a run and mails it.
type ReportHandler struct {
	runs      RunStore
	send      MailerFunc
	reportDir string
	counter   ReportCounter
	now       func() time.Time
}

func NewReportHandler(runs RunStore, send MailerFunc, reportDir string, counter ReportCounter) *ReportHandler {
	return &ReportHandler{runs: runs, send: send, reportDir: reportDir, counter: counter, now: time.Now}
}

func (h *ReportHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p ImportReportPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}

	run, err := h.runs.GetImportRun(ctx, p.RunID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("import run %s not found: %w", p.RunID, asynq.SkipRetry)
	}
	if err != nil {
		return err
	}

	path, err := h.BuildReport(run)
	if err != nil {
		h.observe(false)
		return err
	}
	if err := h.runs.UpdateImportRunReport(ctx, run.ID, path); err != nil {
		config.Logger.Warn("Failed to store report path", zap.String("run_id", run.ID.String()), zap.Error(err))
	}

	subject := fmt.Sprintf("تقرير أخطاء استيراد أوامر الشراء: %s", run.FileName)
	body := fmt.Sprintf("<p>تم إنشاء %d أمر شراء من أصل %d. فشل %d صف.</p><p>الملف: %s</p>",
		run.Success, run.Total, run.Errors, html.EscapeString(run.FileName))

	sendErr := h.send(p.Recipient, subject, body, path)
	h.observe(sendErr == nil)

	runID := run.ID
	logErr := h.runs.LogEmail(ctx, &models.EmailLog{
		ID:             uuid.New(),
		Recipient:      p.Recipient,
		Subject:        subject,
		Message:        body,
		SentAt:         h.now(),
		Delivered:      sendErr == nil,
		AttachmentPath: path,
		ImportRunID:    &runID,
	})
	if logErr != nil {
		config.Logger.Error("Failed to log report email", zap.String("run_id", run.ID.String()), zap.Error(logErr))
	}

	if sendErr != nil {
		return sendErr
	}
	config.Logger.Info("Import failure report sent",
		zap.String("run_id", run.ID.String()),
		zap.String("recipient", p.Recipient),
	)
	return nil
}

// BuildReport writes a workbook with a summary sheet and one row per failed row.
func (h *ReportHandler) BuildReport(run *models.BulkImportRun) (string, error) {
	var details []string
	if len(run.ErrorDetails) > 0 {
		if err := json.Unmarshal(run.ErrorDetails, &details); err != nil {
			return "", fmt.Errorf("decode error details: %w", err)
		}
	}

	summary := utils.Sheet{
		Name:    "الملخص",
		Headers: []string{"الملف", "الإجمالي", "الناجح", "الأخطاء", "الحالة", "بواسطة", "التاريخ"},
		Rows: [][]interface{}{{
			run.FileName, run.Total, run.Success, run.Errors, string(run.Status), run.CreatedBy,
			run.CreatedAt.Format("2006-01-02 15:04"),
		}},
		RTL: true,
	}
	failures := utils.Sheet{
		Name:    "الأخطاء",
		Headers: []string{"#", "الخطأ"},
		RTL:     true,
	}
	for i, d := range details {
		failures.Rows = append(failures.Rows, []interface{}{i + 1, d})
	}

	return utils.GenerateExcel(h.reportDir, "import_errors_"+run.ID.String(), summary, failures)
}

func (h *ReportHandler) observe(ok bool) {
	if h.counter != nil {
		h.counter.ReportSent(ok)
	}
}
