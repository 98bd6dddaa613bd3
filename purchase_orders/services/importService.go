package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"purchase-orders-backend/config"
	"purchase-orders-backend/db/models"
	"purchase-orders-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// PurchaseOrdersResource is the cache namespace of purchase order queries.
const PurchaseOrdersResource = "purchase_orders"

var ErrValidationPending = errors.New("يرجى تصحيح الأخطاء قبل المتابعة")

// CommitValidationError carries the violations that blocked a commit.
type CommitValidationError struct {
	Errors []ValidationError
}

func (e *CommitValidationError) Error() string { return ErrValidationPending.Error() }
func (e *CommitValidationError) Unwrap() error { return ErrValidationPending }

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notifier delivers a user-facing message. Delivery is best effort.
type Notifier interface {
	Notify(user, message string, severity Severity)
}

// ImportRunLogger records committed runs.
type ImportRunLogger interface {
	LogImportRun(ctx context.Context, run *models.BulkImportRun) error
}

// ReportScheduler queues the failure report of a run for the given recipient.
type ReportScheduler interface {
	EnqueueFailureReport(ctx context.Context, runID uuid.UUID, recipient string) error
}

// CacheInvalidator drops cached query results of a resource.
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context, resourceType string) error
}

// PreviewResult is returned to the user after an upload.
type PreviewResult struct {
	SessionID string            `json:"upload_id"`
	FileName  string            `json:"file_name"`
	TotalRows int               `json:"total_rows"`
	Records   []PreviewRecord   `json:"records"`
	Errors    []ValidationError `json:"errors"`
	Message   string            `json:"message"`
}

// CommitResult is returned after a commit has run.
type CommitResult struct {
	RunID   uuid.UUID     `json:"run_id"`
	Outcome ImportOutcome `json:"outcome"`
	Message string        `json:"message"`
}

// ImportService drives an upload from preview to commit.
type ImportService struct {
	Mapping    ColumnMapping
	Dates      *DateNormalizer
	Reader     *SpreadsheetReader
	Validator  *RowValidator
	Normalizer *RowNormalizer
	Committer  *ImportCommitter

	Storage  utils.FileStorage
	Sessions SessionStore
	Runs     ImportRunLogger
	Notifier Notifier
	Reports  ReportScheduler
	Cache    CacheInvalidator
}

// ImportServiceDeps are the collaborators of an ImportService.
type ImportServiceDeps struct {
	Customers CustomerStore
	Orders    PurchaseOrderStore
	Hooks     CommitHooks
	Storage   utils.FileStorage
	Sessions  SessionStore
	Runs      ImportRunLogger
	Notifier  Notifier
	Reports   ReportScheduler
	Cache     CacheInvalidator
}

func NewImportService(mapping ColumnMapping, dates *DateNormalizer, deps ImportServiceDeps) *ImportService {
	return &ImportService{
		Mapping:    mapping,
		Dates:      dates,
		Reader:     NewSpreadsheetReader(),
		Validator:  NewRowValidator(mapping, dates),
		Normalizer: NewRowNormalizer(mapping, dates),
		Committer:  NewImportCommitter(mapping, dates, deps.Customers, deps.Orders, deps.Hooks),
		Storage:    deps.Storage,
		Sessions:   deps.Sessions,
		Runs:       deps.Runs,
		Notifier:   deps.Notifier,
		Reports:    deps.Reports,
		Cache:      deps.Cache,
	}
}

// Parse admits and reads a whole file without storing it.
func (s *ImportService) Parse(fileName string, size int64, src io.Reader) (ImportFormat, []byte, []RawRow, error) {
	format, err := AdmitFile(fileName, size)
	if err != nil {
		return "", nil, nil, err
	}

	data, err := io.ReadAll(io.LimitReader(src, MaxImportFileSize+1))
	if err != nil {
		return "", nil, nil, &ParseError{Format: format, Err: err}
	}
	if int64(len(data)) > MaxImportFileSize {
		return "", nil, nil, ErrFileTooLarge
	}

	raws, err := s.Reader.Read(bytes.NewReader(data), format)
	if err != nil {
		return "", nil, nil, err
	}
	if len(raws) == 0 {
		return "", nil, nil, ErrEmptyFile
	}
	return format, data, raws, nil
}

// Preview parses an upload, validates every row, returns the first
// PreviewLimit records and keeps the file so that it can be committed later.
func (s *ImportService) Preview(ctx context.Context, fileName string, size int64, src io.Reader, user string) (*PreviewResult, error) {
	format, data, raws, err := s.Parse(fileName, size, src)
	if err != nil {
		s.notify(user, err.Error(), SeverityError)
		return nil, err
	}

	rows := s.Mapping.AdaptAll(raws)
	records := s.Normalizer.PreviewRows(rows)
	errs := s.Validator.Validate(rows)

	hash, err := utils.HashReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	session := &ImportSession{
		ID:               uuid.NewString(),
		FileName:         fileName,
		FileHash:         hash,
		Format:           format,
		Size:             int64(len(data)),
		TotalRows:        len(raws),
		PreviewCount:     len(records),
		ValidationErrors: len(errs),
		CreatedBy:        user,
		CreatedAt:        s.Dates.Now(),
	}
	session.StoredName, err = s.Storage.UploadFileFromReader(bytes.NewReader(data), session.ID+"."+string(format))
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	if err := s.Sessions.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	result := &PreviewResult{
		SessionID: session.ID,
		FileName:  fileName,
		TotalRows: len(raws),
		Records:   records,
		Errors:    errs,
	}
	if len(errs) == 0 {
		result.Message = fmt.Sprintf("تم تحميل %d عنصر بنجاح", len(raws))
		s.notify(user, result.Message, SeveritySuccess)
	} else {
		result.Message = fmt.Sprintf("تم العثور على %d خطأ في البيانات", len(errs))
		s.notify(user, result.Message, SeverityWarning)
	}

	config.Logger.Info("Purchase order import previewed",
		zap.String("upload_id", session.ID),
		zap.String("file_name", fileName),
		zap.Int("rows", len(raws)),
		zap.Int("validation_errors", len(errs)),
	)
	return result, nil
}

// Commit re-reads the stored file of a previewed upload and writes every row.
// Only the user who uploaded the file may commit it. The session is claimed
// before any row is written and restored when the commit is refused.
func (s *ImportService) Commit(ctx context.Context, sessionID, user string) (*CommitResult, error) {
	session, err := s.Sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.CreatedBy != user || session.PreviewCount == 0 {
		return nil, ErrSessionNotFound
	}
	if session.ValidationErrors > 0 {
		return nil, ErrValidationPending
	}

	session, err = s.Sessions.ClaimSession(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, ErrSessionInProgress
	}
	if err != nil {
		return nil, err
	}

	raws, err := s.readStored(session)
	if err != nil {
		s.releaseSession(ctx, session)
		return nil, err
	}

	result, err := s.commitRows(ctx, raws, session, user)
	if err != nil {
		s.releaseSession(ctx, session)
		return nil, err
	}
	return result, nil
}

func (s *ImportService) readStored(session *ImportSession) ([]RawRow, error) {
	file, err := s.Storage.DownloadFile(session.StoredName)
	if err != nil {
		return nil, fmt.Errorf("open stored upload: %w", err)
	}
	defer file.Close()
	return s.Reader.Read(file, session.Format)
}

func (s *ImportService) releaseSession(ctx context.Context, session *ImportSession) {
	if err := s.Sessions.SaveSession(ctx, session); err != nil {
		config.Logger.Warn("Failed to restore import session", zap.String("upload_id", session.ID), zap.Error(err))
	}
}

// ImportFile parses and commits a file in one step, without a preview
// session. Any validation error in the file refuses the whole import.
func (s *ImportService) ImportFile(ctx context.Context, fileName string, size int64, src io.Reader, user string) (*CommitResult, error) {
	format, data, raws, err := s.Parse(fileName, size, src)
	if err != nil {
		return nil, err
	}
	hash, err := utils.HashReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return s.commitRows(ctx, raws, &ImportSession{
		FileName:  fileName,
		FileHash:  hash,
		Format:    format,
		Size:      int64(len(data)),
		TotalRows: len(raws),
		CreatedBy: user,
	}, user)
}

func (s *ImportService) commitRows(ctx context.Context, raws []RawRow, session *ImportSession, user string) (*CommitResult, error) {
	if errs := s.Validator.Validate(s.Mapping.AdaptAll(raws)); len(errs) > 0 {
		return nil, &CommitValidationError{Errors: errs}
	}

	runID := uuid.New()
	outcome := s.Committer.Commit(ctx, raws, CommitOptions{CreatedBy: user, ImportRunID: &runID})
	s.logRun(ctx, runID, session, outcome, user)

	if s.Cache != nil && outcome.Success > 0 {
		if err := s.Cache.InvalidateCache(ctx, PurchaseOrdersResource); err != nil {
			config.Logger.Warn("Failed to invalidate purchase order cache", zap.Error(err))
		}
	}

	var messages []string
	if outcome.Success > 0 {
		msg := fmt.Sprintf("تم إنشاء %d أمر شراء بنجاح", outcome.Success)
		messages = append(messages, msg)
		s.notify(user, msg, SeveritySuccess)
	}
	if outcome.Errors > 0 {
		msg := fmt.Sprintf("فشل في إنشاء %d أمر شراء", outcome.Errors)
		messages = append(messages, msg)
		s.notify(user, msg, SeverityError)
		if s.Reports != nil {
			if err := s.Reports.EnqueueFailureReport(ctx, runID, user); err != nil {
				config.Logger.Error("Failed to enqueue import failure report", zap.String("run_id", runID.String()), zap.Error(err))
			}
		}
	}

	config.Logger.Info("Purchase order import run finished",
		zap.String("run_id", runID.String()),
		zap.Int("total", outcome.Total),
		zap.Int("success", outcome.Success),
		zap.Int("errors", outcome.Errors),
		zap.Int("skipped", outcome.Skipped),
	)
	return &CommitResult{RunID: runID, Outcome: outcome, Message: strings.Join(messages, "\n")}, nil
}

func (s *ImportService) logRun(ctx context.Context, runID uuid.UUID, session *ImportSession, outcome ImportOutcome, user string) {
	if s.Runs == nil {
		return
	}
	details, _ := json.Marshal(outcome.ErrorDetails)
	run := &models.BulkImportRun{
		ID:           runID,
		FileName:     session.FileName,
		FileHash:     session.FileHash,
		Format:       string(session.Format),
		Total:        outcome.Total,
		Success:      outcome.Success,
		Errors:       outcome.Errors,
		ErrorDetails: datatypes.JSON(details),
		Status:       RunStatus(outcome),
		CreatedBy:    user,
		CreatedAt:    time.Now(),
	}
	if err := s.Runs.LogImportRun(ctx, run); err != nil {
		config.Logger.Error("Failed to log import run", zap.String("run_id", runID.String()), zap.Error(err))
	}
}

// RunStatus classifies an outcome for the run log.
func RunStatus(o ImportOutcome) models.BulkImportStatus {
	switch {
	case o.Errors == 0:
		return models.BulkImportCompleted
	case o.Success == 0:
		return models.BulkImportFailed
	default:
		return models.BulkImportCompletedWithError
	}
}

func (s *ImportService) notify(user, message string, severity Severity) {
	if s.Notifier != nil && user != "" {
		s.Notifier.Notify(user, message, severity)
	}
}
