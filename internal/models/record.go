package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// StatusPending is assigned to every newly created request.
const StatusPending = "pending"

// Schedule is the interview appointment attached to a request.
type Schedule struct {
	Date      string `db:"schedule_tanggal" json:"tanggal"`
	StartTime string `db:"schedule_jam_mulai" json:"jam_mulai"`
	EndTime   string `db:"schedule_jam_selesai" json:"jam_selesai"`
	Location  string `db:"schedule_lokasi" json:"lokasi"`
	Officer   string `db:"schedule_petugas" json:"petugas"`
}

// Record is one BAP submission as persisted. FilePath is internal and must
// never be serialized to clients; use Public for responses.
type Record struct {
	ID                string    `json:"id"`
	ApplicationNumber string    `json:"nomor_permohonan"`
	FullName          string    `json:"nama"`
	BirthDate         string    `json:"tanggal_lahir"`
	PhoneNumber       string    `json:"nomor_hp"`
	Email             string    `json:"email"`
	PassportNumber    string    `json:"paspor"`
	Destination       string    `json:"tujuan"`
	AttachmentName    string    `json:"lampiran"`
	FilePath          string    `json:"file_path"`
	Status            string    `json:"status"`
	AdminNote         string    `json:"catatan_admin"`
	Schedule          Schedule  `json:"schedule"`
	CreatedAt         Timestamp `json:"created_at"`
	UpdatedAt         Timestamp `json:"updated_at"`
}

// PublicRecord is the client-facing view of a Record.
type PublicRecord struct {
	ID                string    `json:"id"`
	ApplicationNumber string    `json:"nomor_permohonan"`
	FullName          string    `json:"nama"`
	BirthDate         string    `json:"tanggal_lahir"`
	PhoneNumber       string    `json:"nomor_hp"`
	Email             string    `json:"email"`
	PassportNumber    string    `json:"paspor"`
	Destination       string    `json:"tujuan"`
	AttachmentName    string    `json:"lampiran"`
	Status            string    `json:"status"`
	AdminNote         string    `json:"catatan_admin"`
	Schedule          Schedule  `json:"schedule"`
	CreatedAt         Timestamp `json:"created_at"`
	UpdatedAt         Timestamp `json:"updated_at"`
}

// Public strips server-internal fields.
func (r Record) Public() PublicRecord {
	return PublicRecord{
		ID:                r.ID,
		ApplicationNumber: r.ApplicationNumber,
		FullName:          r.FullName,
		BirthDate:         r.BirthDate,
		PhoneNumber:       r.PhoneNumber,
		Email:             r.Email,
		PassportNumber:    r.PassportNumber,
		Destination:       r.Destination,
		AttachmentName:    r.AttachmentName,
		Status:            r.Status,
		AdminNote:         r.AdminNote,
		Schedule:          r.Schedule,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// PublicRecords maps a collection to its client-facing view. The result is
// never nil so it always encodes as a JSON array.
func PublicRecords(records []Record) []PublicRecord {
	out := make([]PublicRecord, 0, len(records))
	for _, r := range records {
		out = append(out, r.Public())
	}
	return out
}

// UnmarshalJSON tolerates older data files in which status and catatan_admin
// hold arbitrary JSON values instead of strings.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	aux := struct {
		*plain
		Status    looseString `json:"status"`
		AdminNote looseString `json:"catatan_admin"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Status = string(aux.Status)
	r.AdminNote = string(aux.AdminNote)
	return nil
}

// UnmarshalJSON accepts any scalar for each field; missing fields are "".
func (s *Schedule) UnmarshalJSON(data []byte) error {
	var aux struct {
		Date      looseString `json:"tanggal"`
		StartTime looseString `json:"jam_mulai"`
		EndTime   looseString `json:"jam_selesai"`
		Location  looseString `json:"lokasi"`
		Officer   looseString `json:"petugas"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*s = Schedule{
		Date:      string(aux.Date),
		StartTime: string(aux.StartTime),
		EndTime:   string(aux.EndTime),
		Location:  string(aux.Location),
		Officer:   string(aux.Officer),
	}
	return nil
}

// looseString decodes a JSON string as-is, null as "" and any other value as
// its compact JSON text.
type looseString string

func (l *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*l = ""
		return nil
	case data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*l = looseString(v)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*l = looseString(buf.String())
	return nil
}

// legacyTimestampLayouts covers zone-less ISO-8601 values written by older
// deployments; they are always UTC.
var legacyTimestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// Timestamp is a UTC instant encoded as RFC 3339 with nanoseconds.
type Timestamp struct {
	time.Time
}

// NewTimestamp normalises t to UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON accepts RFC 3339 as well as zone-less ISO-8601 values.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTimestamp parses an RFC 3339 or legacy zone-less value. Empty input
// yields the zero Timestamp.
func ParseTimestamp(raw string) (Timestamp, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Timestamp{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return NewTimestamp(parsed), nil
	}
	for _, layout := range legacyTimestampLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return NewTimestamp(parsed), nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", raw)
}
