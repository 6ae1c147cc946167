package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/bap-api/internal/dto"
	"github.com/noah-isme/bap-api/internal/models"
	"github.com/noah-isme/bap-api/internal/repository"
	appErrors "github.com/noah-isme/bap-api/pkg/errors"
	"github.com/noah-isme/bap-api/pkg/storage"
)

type memoryStoreStub struct {
	records []models.Record
	saves   int
	saveErr error
	loadErr error
}

func (m *memoryStoreStub) Load(ctx context.Context) ([]models.Record, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]models.Record, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *memoryStoreStub) Save(ctx context.Context, records []models.Record) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.records = append([]models.Record(nil), records...)
	return nil
}

type attachmentStub struct {
	stored  map[string]string
	removed []string
	seq     int
}

func newAttachmentStub() *attachmentStub {
	return &attachmentStub{stored: make(map[string]string)}
}

func (a *attachmentStub) Store(originalName string, r io.Reader) (string, int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	a.seq++
	path := fmt.Sprintf("/uploads/%d_%s", a.seq, storage.SanitizeFilename(originalName))
	a.stored[path] = string(data)
	return path, int64(len(data)), nil
}

func (a *attachmentStub) Remove(path string) {
	a.removed = append(a.removed, path)
	delete(a.stored, path)
}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func validCreateRequest() dto.CreateRecordRequest {
	return dto.CreateRecordRequest{
		FullName:       "  Siti Aminah ",
		BirthDate:      "1990-01-01",
		PhoneNumber:    "08123456789",
		PassportNumber: "X1234567",
		Destination:    "Jepang",
	}
}

func scanAttachment() []dto.Attachment {
	return []dto.Attachment{{Filename: "scan paspor.pdf", Size: 8, Content: strings.NewReader("%PDF-1.4")}}
}

func newRecordServiceForTest(t *testing.T) (*RecordService, *memoryStoreStub, *attachmentStub, *fixedClock) {
	t.Helper()
	store := &memoryStoreStub{}
	files := newAttachmentStub()
	clock := &fixedClock{now: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
	svc := NewRecordService(store, files, NewMetricsService(), nil, zap.NewNop(), RecordServiceConfig{Clock: clock.Now})
	return svc, store, files, clock
}

func TestRecordServiceCreate(t *testing.T) {
	svc, store, files, _ := newRecordServiceForTest(t)

	res, err := svc.Create(context.Background(), validCreateRequest(), scanAttachment())
	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotEmpty(t, res.ID)
	require.Regexp(t, regexp.MustCompile(`^BAP-2024-[A-Z0-9]{5}$`), res.ApplicationNumber)

	require.Len(t, store.records, 1)
	rec := store.records[0]
	require.Equal(t, res.ID, rec.ID)
	require.Equal(t, "Siti Aminah", rec.FullName)
	require.Equal(t, models.StatusPending, rec.Status)
	require.Equal(t, "scan paspor.pdf", rec.AttachmentName)
	require.Equal(t, "%PDF-1.4", files.stored[rec.FilePath])
	require.Equal(t, rec.CreatedAt, rec.UpdatedAt)
	require.Equal(t, models.Schedule{}, rec.Schedule)
}

func TestRecordServiceCreateMissingFields(t *testing.T) {
	mutations := map[string]func(*dto.CreateRecordRequest){
		"nama":          func(r *dto.CreateRecordRequest) { r.FullName = "   " },
		"tanggal_lahir": func(r *dto.CreateRecordRequest) { r.BirthDate = "" },
		"nomor_hp":      func(r *dto.CreateRecordRequest) { r.PhoneNumber = "" },
		"paspor":        func(r *dto.CreateRecordRequest) { r.PassportNumber = "" },
		"tujuan":        func(r *dto.CreateRecordRequest) { r.Destination = "" },
	}
	for field, mutate := range mutations {
		t.Run(field, func(t *testing.T) {
			svc, store, files, _ := newRecordServiceForTest(t)
			req := validCreateRequest()
			mutate(&req)

			_, err := svc.Create(context.Background(), req, scanAttachment())
			require.True(t, errors.Is(err, appErrors.ErrValidation))
			require.Equal(t, "Missing required fields", appErrors.FromError(err).Message)
			require.Empty(t, store.records)
			require.Zero(t, store.saves)
			require.Empty(t, files.stored)
		})
	}
}

func TestRecordServiceCreateAttachmentRules(t *testing.T) {
	svc, store, files, _ := newRecordServiceForTest(t)

	_, err := svc.Create(context.Background(), validCreateRequest(), nil)
	require.True(t, errors.Is(err, appErrors.ErrValidation))

	two := append(scanAttachment(), dto.Attachment{Filename: "b.pdf", Content: strings.NewReader("b")})
	_, err = svc.Create(context.Background(), validCreateRequest(), two)
	require.True(t, errors.Is(err, appErrors.ErrTooManyAttachments))

	require.Empty(t, store.records)
	require.Empty(t, files.stored)
}

func TestRecordServiceCreateRemovesAttachmentWhenSaveFails(t *testing.T) {
	svc, store, files, _ := newRecordServiceForTest(t)
	store.saveErr = errors.New("disk full")

	_, err := svc.Create(context.Background(), validCreateRequest(), scanAttachment())
	require.Error(t, err)
	require.Equal(t, 500, appErrors.FromError(err).Status)
	require.Empty(t, files.stored)
	require.Len(t, files.removed, 1)
}

func TestRecordServiceGetAndList(t *testing.T) {
	svc, _, _, _ := newRecordServiceForTest(t)
	res, err := svc.Create(context.Background(), validCreateRequest(), scanAttachment())
	require.NoError(t, err)

	rec, err := svc.Get(context.Background(), res.ID)
	require.NoError(t, err)
	require.Equal(t, res.ApplicationNumber, rec.ApplicationNumber)

	_, err = svc.Get(context.Background(), "missing")
	require.True(t, errors.Is(err, appErrors.ErrNotFound))

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, res.ID, list[0].ID)
}

func TestRecordServiceUpdateStatus(t *testing.T) {
	svc, _, _, clock := newRecordServiceForTest(t)
	res, err := svc.Create(context.Background(), validCreateRequest(), scanAttachment())
	require.NoError(t, err)
	before, err := svc.Get(context.Background(), res.ID)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	status := "approved"
	require.NoError(t, svc.Update(context.Background(), res.ID, dto.UpdateRecordRequest{Status: &status}))

	after, err := svc.Get(context.Background(), res.ID)
	require.NoError(t, err)
	require.Equal(t, "approved", after.Status)
	require.True(t, after.UpdatedAt.After(before.UpdatedAt.Time))
	require.Equal(t, before.CreatedAt, after.CreatedAt)
	require.Equal(t, before.AdminNote, after.AdminNote)
}

func TestRecordServiceUpdateAdvancesTimestampWithFrozenClock(t *testing.T) {
	svc, _, _, _ := newRecordServiceForTest(t)
	res, err := svc.Create(context.Background(), validCreateRequest(), scanAttachment())
	require.NoError(t, err)
	before, err := svc.Get(context.Background(), res.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Update(context.Background(), res.ID, dto.UpdateRecordRequest{}))

	after, err := svc.Get(context.Background(), res.ID)
	require.NoError(t, err)
	require.True(t, after.UpdatedAt.After(before.UpdatedAt.Time))
}

func TestRecordServiceUpdateScheduleReplacesAllFields(t *testing.T) {
	svc, _, _, _ := newRecordServiceForTest(t)
	res, err := svc.Create(context.Background(), validCreateRequest(), scanAttachment())
	require.NoError(t, err)

	full := &dto.ScheduleInput{Date: "2024-06-01", StartTime: "09:00", EndTime: "10:00", Location: "Bandung", Officer: "Budi"}
	require.NoError(t, svc.Update(context.Background(), res.ID, dto.UpdateRecordRequest{Schedule: full}))

	partial := &dto.ScheduleInput{Location: "Jakarta"}
	note := "harap bawa paspor asli"
	require.NoError(t, svc.Update(context.Background(), res.ID, dto.UpdateRecordRequest{Schedule: partial, AdminNote: &note}))

	rec, err := svc.Get(context.Background(), res.ID)
	require.NoError(t, err)
	require.Equal(t, models.Schedule{Location: "Jakarta"}, rec.Schedule)
	require.Equal(t, note, rec.AdminNote)
	require.Equal(t, models.StatusPending, rec.Status)
}

func TestRecordServiceUpdateUnknownID(t *testing.T) {
	svc, store, _, _ := newRecordServiceForTest(t)
	status := "approved"

	err := svc.Update(context.Background(), "missing", dto.UpdateRecordRequest{Status: &status})
	require.True(t, errors.Is(err, appErrors.ErrNotFound))
	require.Zero(t, store.saves)
}

func TestRecordServiceDelete(t *testing.T) {
	svc, store, files, _ := newRecordServiceForTest(t)
	keep, err := svc.Create(context.Background(), validCreateRequest(), scanAttachment())
	require.NoError(t, err)
	drop, err := svc.Create(context.Background(), validCreateRequest(), scanAttachment())
	require.NoError(t, err)
	dropPath := store.records[1].FilePath

	require.True(t, errors.Is(svc.Delete(context.Background(), "missing"), appErrors.ErrNotFound))
	require.Len(t, store.records, 2)
	require.Empty(t, files.removed)

	require.NoError(t, svc.Delete(context.Background(), drop.ID))
	require.Len(t, store.records, 1)
	require.Equal(t, keep.ID, store.records[0].ID)
	require.Equal(t, []string{dropPath}, files.removed)
}

func TestRecordServiceSearch(t *testing.T) {
	svc, store, _, _ := newRecordServiceForTest(t)
	res, err := svc.Create(context.Background(), validCreateRequest(), scanAttachment())
	require.NoError(t, err)
	store.records[0].ApplicationNumber = "BAP-2024-AB12C"

	byNumber, err := svc.Search(context.Background(), "  bap-2024-ab12c ")
	require.NoError(t, err)
	require.Len(t, byNumber, 1)
	require.Equal(t, res.ID, byNumber[0].ID)

	byPassport, err := svc.Search(context.Background(), "x1234567")
	require.NoError(t, err)
	require.Len(t, byPassport, 1)

	substring, err := svc.Search(context.Background(), "BAP-2024")
	require.NoError(t, err)
	require.NotNil(t, substring)
	require.Empty(t, substring)
}

func TestRecordServiceLoadFailure(t *testing.T) {
	svc, store, _, _ := newRecordServiceForTest(t)
	store.loadErr = errors.New("connection refused")

	_, err := svc.List(context.Background())
	require.Error(t, err)
	require.Equal(t, 500, appErrors.FromError(err).Status)
}

func TestRecordServiceConcurrentCreatesAreNotLost(t *testing.T) {
	dir := t.TempDir()
	store := repository.NewRecordFileRepository(filepath.Join(dir, "data.json"), nil)
	files := storage.NewAttachmentStore(filepath.Join(dir, "uploads"), nil)
	svc := NewRecordService(store, files, nil, nil, nil, RecordServiceConfig{})

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), validCreateRequest(), scanAttachment())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, writers)

	uploads, err := os.ReadDir(filepath.Join(dir, "uploads"))
	require.NoError(t, err)
	require.Len(t, uploads, writers)
}
