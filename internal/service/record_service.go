package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/bap-api/internal/dto"
	"github.com/noah-isme/bap-api/internal/models"
	appErrors "github.com/noah-isme/bap-api/pkg/errors"
)

type recordStore interface {
	Load(ctx context.Context) ([]models.Record, error)
	Save(ctx context.Context, records []models.Record) error
}

type attachmentStore interface {
	Store(originalName string, r io.Reader) (string, int64, error)
	Remove(path string)
}

type recordMetrics interface {
	ObserveStoreOperation(operation string, duration time.Duration, err error)
	SetRecordCount(n int)
	AddAttachmentBytes(n int64)
}

// RecordServiceConfig carries optional collaborators; zero values get defaults.
type RecordServiceConfig struct {
	Clock  func() time.Time
	Random io.Reader
}

// RecordService implements the BAP request use cases on top of a whole-collection store.
// Every load-modify-save cycle runs under mu, so concurrent writers cannot
// lose each other's updates within one process.
type RecordService struct {
	mu          sync.RWMutex
	store       recordStore
	attachments attachmentStore
	metrics     recordMetrics
	validator   *validator.Validate
	logger      *zap.Logger
	clock       func() time.Time
	random      io.Reader
}

// NewRecordService constructs the service.
func NewRecordService(store recordStore, attachments attachmentStore, metrics recordMetrics, validate *validator.Validate, logger *zap.Logger, cfg RecordServiceConfig) *RecordService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &RecordService{
		store:       store,
		attachments: attachments,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		clock:       cfg.Clock,
		random:      cfg.Random,
	}
}

// Create validates a submission, stores its attachment and appends the record.
func (s *RecordService) Create(ctx context.Context, req dto.CreateRecordRequest, files []dto.Attachment) (*dto.CreateRecordResponse, error) {
	if len(files) > 1 {
		return nil, appErrors.ErrTooManyAttachments
	}
	req = trimCreateRequest(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
	}
	if len(files) == 0 || files[0].Content == nil {
		return nil, appErrors.ErrValidation
	}
	file := files[0]

	now := s.clock()
	number, err := generateApplicationNumber(now.Year(), s.random)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}

	path, size, err := s.attachments.Store(file.Filename, file.Content)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store attachment")
	}
	s.addAttachmentBytes(size)

	stamp := models.NewTimestamp(now)
	record := models.Record{
		ID:                uuid.NewString(),
		ApplicationNumber: number,
		FullName:          req.FullName,
		BirthDate:         req.BirthDate,
		PhoneNumber:       req.PhoneNumber,
		Email:             req.Email,
		PassportNumber:    req.PassportNumber,
		Destination:       req.Destination,
		AttachmentName:    file.Filename,
		FilePath:          path,
		Status:            models.StatusPending,
		CreatedAt:         stamp,
		UpdatedAt:         stamp,
	}

	s.mu.Lock()
	err = s.mutate(ctx, func(records []models.Record) ([]models.Record, error) {
		return append(records, record), nil
	})
	s.mu.Unlock()
	if err != nil {
		s.attachments.Remove(path)
		return nil, err
	}

	s.logger.Info("bap request created",
		zap.String("id", record.ID),
		zap.String("nomor_permohonan", record.ApplicationNumber),
		zap.Int64("attachment_bytes", size),
	)
	return &dto.CreateRecordResponse{Success: true, ID: record.ID, ApplicationNumber: record.ApplicationNumber}, nil
}

// List returns every record without internal fields, in store order.
func (s *RecordService) List(ctx context.Context) ([]models.PublicRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return models.PublicRecords(records), nil
}

// Get returns one record by exact id.
func (s *RecordService) Get(ctx context.Context, id string) (*models.PublicRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(records, id)
	if idx < 0 {
		return nil, appErrors.ErrNotFound
	}
	public := records[idx].Public()
	return &public, nil
}

// Search matches term case-insensitively against the application number or
// passport number. Only whole-value equality counts; substrings do not match.
func (s *RecordService) Search(ctx context.Context, term string) ([]models.PublicRecord, error) {
	term = strings.TrimSpace(term)
	s.mu.RLock()
	defer s.mu.RUnlock()
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	matches := make([]models.Record, 0, 1)
	for _, rec := range records {
		if strings.EqualFold(rec.ApplicationNumber, term) || strings.EqualFold(rec.PassportNumber, term) {
			matches = append(matches, rec)
		}
	}
	return models.PublicRecords(matches), nil
}

// Update applies the present fields of req. A schedule replaces all five
// schedule fields; updated_at always moves forward.
func (s *RecordService) Update(ctx context.Context, id string, req dto.UpdateRecordRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.mutate(ctx, func(records []models.Record) ([]models.Record, error) {
		idx := indexOf(records, id)
		if idx < 0 {
			return nil, appErrors.ErrNotFound
		}
		rec := &records[idx]
		if req.Status != nil {
			rec.Status = *req.Status
		}
		if req.AdminNote != nil {
			rec.AdminNote = *req.AdminNote
		}
		if req.Schedule != nil {
			rec.Schedule = models.Schedule{
				Date:      req.Schedule.Date,
				StartTime: req.Schedule.StartTime,
				EndTime:   req.Schedule.EndTime,
				Location:  req.Schedule.Location,
				Officer:   req.Schedule.Officer,
			}
		}
		rec.UpdatedAt = s.nextUpdatedAt(rec.UpdatedAt)
		return records, nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("bap request updated", zap.String("id", id))
	return nil
}

// Delete removes the record and then its attachment. Attachment cleanup is
// best-effort and never fails the call.
func (s *RecordService) Delete(ctx context.Context, id string) error {
	var removed models.Record
	s.mu.Lock()
	err := s.mutate(ctx, func(records []models.Record) ([]models.Record, error) {
		idx := indexOf(records, id)
		if idx < 0 {
			return nil, appErrors.ErrNotFound
		}
		removed = records[idx]
		return append(records[:idx], records[idx+1:]...), nil
	})
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.attachments.Remove(removed.FilePath)
	s.logger.Info("bap request deleted", zap.String("id", id))
	return nil
}

// mutate runs one load-modify-save cycle. Callers must hold mu.
func (s *RecordService) mutate(ctx context.Context, fn func([]models.Record) ([]models.Record, error)) error {
	records, err := s.load(ctx)
	if err != nil {
		return err
	}
	updated, err := fn(records)
	if err != nil {
		return err
	}
	start := time.Now()
	err = s.store.Save(ctx, updated)
	s.observe("save", start, err)
	if err != nil {
		return appErrors.Wrap(fmt.Errorf("save records: %w", err), appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	if s.metrics != nil {
		s.metrics.SetRecordCount(len(updated))
	}
	return nil
}

func (s *RecordService) load(ctx context.Context) ([]models.Record, error) {
	start := time.Now()
	records, err := s.store.Load(ctx)
	s.observe("load", start, err)
	if err != nil {
		return nil, appErrors.Wrap(fmt.Errorf("load records: %w", err), appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	if s.metrics != nil {
		s.metrics.SetRecordCount(len(records))
	}
	return records, nil
}

// nextUpdatedAt returns now, bumped past prev when the clock has not advanced.
func (s *RecordService) nextUpdatedAt(prev models.Timestamp) models.Timestamp {
	next := models.NewTimestamp(s.clock())
	if !next.After(prev.Time) {
		next = models.NewTimestamp(prev.Add(time.Microsecond))
	}
	return next
}

func (s *RecordService) observe(operation string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveStoreOperation(operation, time.Since(start), err)
}

func (s *RecordService) addAttachmentBytes(n int64) {
	if s.metrics == nil {
		return
	}
	s.metrics.AddAttachmentBytes(n)
}

func indexOf(records []models.Record, id string) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}

func trimCreateRequest(req dto.CreateRecordRequest) dto.CreateRecordRequest {
	req.FullName = strings.TrimSpace(req.FullName)
	req.BirthDate = strings.TrimSpace(req.BirthDate)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.Email = strings.TrimSpace(req.Email)
	req.PassportNumber = strings.TrimSpace(req.PassportNumber)
	req.Destination = strings.TrimSpace(req.Destination)
	return req
}
