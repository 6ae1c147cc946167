package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/bap-api/internal/models"
	appErrors "github.com/noah-isme/bap-api/pkg/errors"
	"github.com/noah-isme/bap-api/pkg/export"
)

// Export filenames offered to browsers.
const (
	CSVExportFilename = "pengajuan_BAP.csv"
	PDFExportFilename = "pengajuan_BAP.pdf"
)

// exportHeaders is the fixed column order of every export.
var exportHeaders = []string{
	"Nomor Permohonan", "Nama", "Tanggal Lahir", "Nomor HP", "Email",
	"Paspor", "Tujuan", "Lampiran", "Status", "Created At",
}

type recordLister interface {
	List(ctx context.Context) ([]models.PublicRecord, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportService renders the full record collection as downloadable files.
type ExportService struct {
	records recordLister
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(records recordLister, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{records: records, csv: csv, pdf: pdf, logger: logger}
}

// CSV renders every record, one row each, below the fixed header row.
func (s *ExportService) CSV(ctx context.Context) ([]byte, error) {
	data, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
	}
	s.logger.Debug("csv export rendered", zap.Int("rows", len(data.Rows)), zap.Int("bytes", len(out)))
	return out, nil
}

// PDF renders the same dataset as a printable table.
func (s *ExportService) PDF(ctx context.Context) ([]byte, error) {
	data, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.pdf.Render(data, fmt.Sprintf("Pengajuan BAP (%d)", len(data.Rows)))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
	}
	s.logger.Debug("pdf export rendered", zap.Int("rows", len(data.Rows)), zap.Int("bytes", len(out)))
	return out, nil
}

func (s *ExportService) dataset(ctx context.Context) (export.Dataset, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.ApplicationNumber,
			rec.FullName,
			rec.BirthDate,
			rec.PhoneNumber,
			rec.Email,
			rec.PassportNumber,
			rec.Destination,
			rec.AttachmentName,
			rec.Status,
			formatTimestamp(rec.CreatedAt),
		})
	}
	return export.Dataset{Headers: exportHeaders, Rows: rows}, nil
}

func formatTimestamp(ts models.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339Nano)
}
