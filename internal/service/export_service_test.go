package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bap-api/internal/models"
	"github.com/noah-isme/bap-api/pkg/export"
)

type recordListerStub struct {
	records []models.PublicRecord
	err     error
}

func (s recordListerStub) List(ctx context.Context) ([]models.PublicRecord, error) {
	return s.records, s.err
}

type pdfRendererStub struct {
	title string
	data  export.Dataset
}

func (s *pdfRendererStub) Render(data export.Dataset, title string) ([]byte, error) {
	s.title = title
	s.data = data
	return []byte("%PDF-stub"), nil
}

func TestExportServiceCSV(t *testing.T) {
	created := models.NewTimestamp(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))
	lister := recordListerStub{records: []models.PublicRecord{
		{ApplicationNumber: "BAP-2024-AB12C", FullName: "Siti, Aminah", PassportNumber: "X1", Status: "pending", CreatedAt: created},
		{ApplicationNumber: "BAP-2024-ZZ999", FullName: "Budi", PassportNumber: "X2", Status: "approved", CreatedAt: created},
	}}
	svc := NewExportService(lister, nil, nil, nil)

	out, err := svc.CSV(context.Background())
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"Nomor Permohonan", "Nama", "Tanggal Lahir", "Nomor HP", "Email", "Paspor", "Tujuan", "Lampiran", "Status", "Created At"}, rows[0])
	require.Equal(t, "Siti, Aminah", rows[1][1])
	require.Equal(t, "2024-05-01T08:00:00Z", rows[1][9])
	require.Equal(t, "approved", rows[2][8])
}

func TestExportServiceCSVEmptyCollection(t *testing.T) {
	svc := NewExportService(recordListerStub{}, nil, nil, nil)

	out, err := svc.CSV(context.Background())
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestExportServicePDF(t *testing.T) {
	pdf := &pdfRendererStub{}
	lister := recordListerStub{records: []models.PublicRecord{{ApplicationNumber: "BAP-2024-AB12C"}}}
	svc := NewExportService(lister, nil, nil, pdf)

	out, err := svc.PDF(context.Background())
	require.NoError(t, err)
	require.Equal(t, "%PDF-stub", string(out))
	require.Equal(t, "Pengajuan BAP (1)", pdf.title)
	require.Len(t, pdf.data.Rows, 1)
	require.Empty(t, pdf.data.Rows[0][9])
}

func TestExportServicePropagatesListError(t *testing.T) {
	svc := NewExportService(recordListerStub{err: errors.New("boom")}, nil, nil, nil)

	_, err := svc.CSV(context.Background())
	require.Error(t, err)
}
