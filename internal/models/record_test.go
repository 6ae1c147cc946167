package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPublicRecordNeverCarriesFilePath(t *testing.T) {
	rec := Record{ID: "r-1", FilePath: "/srv/uploads/abc_scan.pdf", AttachmentName: "scan.pdf"}

	raw, err := json.Marshal(rec.Public())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	require.NotContains(t, fields, "file_path")
	require.Equal(t, "scan.pdf", fields["lampiran"])
	require.Contains(t, fields, "schedule")
}

func TestPublicRecordsEncodesEmptyArray(t *testing.T) {
	raw, err := json.Marshal(PublicRecords(nil))
	require.NoError(t, err)
	require.Equal(t, "[]", string(raw))
}

func TestTimestampAcceptsLegacyValues(t *testing.T) {
	var rec Record
	payload := `{"id":"r-1","created_at":"2024-05-01T08:30:00.123456","updated_at":"2024-05-02T09:00:00"}`
	require.NoError(t, json.Unmarshal([]byte(payload), &rec))

	require.Equal(t, time.Date(2024, 5, 1, 8, 30, 0, 123456000, time.UTC), rec.CreatedAt.Time)
	require.Equal(t, time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC), rec.UpdatedAt.Time)
}

func TestTimestampEncodesUTC(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	ts := NewTimestamp(time.Date(2024, 5, 1, 15, 0, 0, 500, jakarta))

	raw, err := json.Marshal(ts)
	require.NoError(t, err)
	require.Equal(t, `"2024-05-01T08:00:00.0000005Z"`, string(raw))

	_, err = ParseTimestamp("yesterday")
	require.Error(t, err)
}

func TestRecordDecodesNonStringStatusAndNote(t *testing.T) {
	raw := `{"id":"a","status":1,"catatan_admin":null,"schedule":{"lokasi":"Jakarta","jam_mulai":9},"created_at":"2024-05-01T08:00:00"}`

	var rec Record
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	require.Equal(t, "a", rec.ID)
	require.Equal(t, "1", rec.Status)
	require.Equal(t, "", rec.AdminNote)
	require.Equal(t, Schedule{Location: "Jakarta", StartTime: "9"}, rec.Schedule)
	require.Equal(t, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), rec.CreatedAt.Time)

	var nested Record
	require.NoError(t, json.Unmarshal([]byte(`{"status":{"code": 2},"catatan_admin":true,"schedule":{}}`), &nested))
	require.Equal(t, `{"code":2}`, nested.Status)
	require.Equal(t, "true", nested.AdminNote)
	require.Equal(t, Schedule{}, nested.Schedule)
}
