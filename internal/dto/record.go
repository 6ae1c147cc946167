package dto

import (
	"bytes"
	"encoding/json"
	"io"
)

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateRecordRequest holds the text parts of a multipart submission.
type CreateRecordRequest struct {
	FullName       string `form:"nama" validate:"required"`
	BirthDate      string `form:"tanggal_lahir" validate:"required"`
	PhoneNumber    string `form:"nomor_hp" validate:"required"`
	Email          string `form:"email"`
	PassportNumber string `form:"paspor" validate:"required"`
	Destination    string `form:"tujuan" validate:"required"`
}

// Attachment is the single uploaded document of a submission.
type Attachment struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// CreateRecordResponse is returned with 201 Created.
type CreateRecordResponse struct {
	Success           bool   `json:"success"`
	ID                string `json:"id"`
	ApplicationNumber string `json:"nomor_permohonan"`
}

// ScheduleInput mirrors models.Schedule; absent keys decode to "".
type ScheduleInput struct {
	Date      string `json:"tanggal"`
	StartTime string `json:"jam_mulai"`
	EndTime   string `json:"jam_selesai"`
	Location  string `json:"lokasi"`
	Officer   string `json:"petugas"`
}

// UpdateRecordRequest is the body of PUT /api/requests/:id. A nil field was
// absent (or null) in the payload and leaves the stored value untouched.
type UpdateRecordRequest struct {
	Status    *string
	AdminNote *string
	Schedule  *ScheduleInput
}

type updateRecordPayload struct {
	Status    *string         `json:"status"`
	AdminNote *string         `json:"catatan_admin"`
	Schedule  json.RawMessage `json:"schedule"`
}

// UnmarshalJSON ignores unknown keys and any schedule value that is not a
// JSON object.
func (r *UpdateRecordRequest) UnmarshalJSON(data []byte) error {
	var payload updateRecordPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	r.Status = payload.Status
	r.AdminNote = payload.AdminNote
	r.Schedule = nil

	raw := bytes.TrimSpace(payload.Schedule)
	if len(raw) > 0 && raw[0] == '{' {
		var schedule ScheduleInput
		if err := json.Unmarshal(raw, &schedule); err != nil {
			return err
		}
		r.Schedule = &schedule
	}
	return nil
}
