package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/bap-api/internal/models"
)

const recordSchema = `CREATE TABLE IF NOT EXISTS bap_requests (
	id TEXT PRIMARY KEY,
	nomor_permohonan TEXT NOT NULL,
	nama TEXT NOT NULL,
	tanggal_lahir TEXT NOT NULL,
	nomor_hp TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	paspor TEXT NOT NULL,
	tujuan TEXT NOT NULL,
	lampiran TEXT NOT NULL DEFAULT '',
	file_path TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	catatan_admin TEXT NOT NULL DEFAULT '',
	schedule_tanggal TEXT NOT NULL DEFAULT '',
	schedule_jam_mulai TEXT NOT NULL DEFAULT '',
	schedule_jam_selesai TEXT NOT NULL DEFAULT '',
	schedule_lokasi TEXT NOT NULL DEFAULT '',
	schedule_petugas TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

const recordColumns = `id, nomor_permohonan, nama, tanggal_lahir, nomor_hp, email, paspor, tujuan, lampiran, file_path,
	status, catatan_admin, schedule_tanggal, schedule_jam_mulai, schedule_jam_selesai, schedule_lokasi, schedule_petugas,
	created_at, updated_at`

type recordRow struct {
	ID                string `db:"id"`
	ApplicationNumber string `db:"nomor_permohonan"`
	FullName          string `db:"nama"`
	BirthDate         string `db:"tanggal_lahir"`
	PhoneNumber       string `db:"nomor_hp"`
	Email             string `db:"email"`
	PassportNumber    string `db:"paspor"`
	Destination       string `db:"tujuan"`
	AttachmentName    string `db:"lampiran"`
	FilePath          string `db:"file_path"`
	Status            string `db:"status"`
	AdminNote         string `db:"catatan_admin"`
	models.Schedule
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func toRow(r models.Record) recordRow {
	return recordRow{
		ID:                r.ID,
		ApplicationNumber: r.ApplicationNumber,
		FullName:          r.FullName,
		BirthDate:         r.BirthDate,
		PhoneNumber:       r.PhoneNumber,
		Email:             r.Email,
		PassportNumber:    r.PassportNumber,
		Destination:       r.Destination,
		AttachmentName:    r.AttachmentName,
		FilePath:          r.FilePath,
		Status:            r.Status,
		AdminNote:         r.AdminNote,
		Schedule:          r.Schedule,
		CreatedAt:         r.CreatedAt.Time,
		UpdatedAt:         r.UpdatedAt.Time,
	}
}

func (row recordRow) toModel() models.Record {
	return models.Record{
		ID:                row.ID,
		ApplicationNumber: row.ApplicationNumber,
		FullName:          row.FullName,
		BirthDate:         row.BirthDate,
		PhoneNumber:       row.PhoneNumber,
		Email:             row.Email,
		PassportNumber:    row.PassportNumber,
		Destination:       row.Destination,
		AttachmentName:    row.AttachmentName,
		FilePath:          row.FilePath,
		Status:            row.Status,
		AdminNote:         row.AdminNote,
		Schedule:          row.Schedule,
		CreatedAt:         models.NewTimestamp(row.CreatedAt),
		UpdatedAt:         models.NewTimestamp(row.UpdatedAt),
	}
}

// RecordPostgresRepository stores the record collection in PostgreSQL while
// keeping the whole-collection Load/Save contract of the file store.
type RecordPostgresRepository struct {
	db *sqlx.DB
}

// NewRecordPostgresRepository constructs the repository.
func NewRecordPostgresRepository(db *sqlx.DB) *RecordPostgresRepository {
	return &RecordPostgresRepository{db: db}
}

// EnsureSchema creates the bap_requests table when missing.
func (r *RecordPostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, recordSchema); err != nil {
		return fmt.Errorf("ensure bap_requests schema: %w", err)
	}
	return nil
}

// Load returns every stored record in creation order.
func (r *RecordPostgresRepository) Load(ctx context.Context) ([]models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM bap_requests ORDER BY created_at, id`
	var rows []recordRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	records := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toModel())
	}
	return records, nil
}

// Save replaces the table contents with records inside one transaction.
func (r *RecordPostgresRepository) Save(ctx context.Context, records []models.Record) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save records: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM bap_requests`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	const insert = `INSERT INTO bap_requests (` + recordColumns + `)
	VALUES (:id, :nomor_permohonan, :nama, :tanggal_lahir, :nomor_hp, :email, :paspor, :tujuan, :lampiran, :file_path,
	:status, :catatan_admin, :schedule_tanggal, :schedule_jam_mulai, :schedule_jam_selesai, :schedule_lokasi, :schedule_petugas,
	:created_at, :updated_at)`
	for _, rec := range records {
		if _, err = tx.NamedExecContext(ctx, insert, toRow(rec)); err != nil {
			return fmt.Errorf("insert record %s: %w", rec.ID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save records: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (r *RecordPostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
