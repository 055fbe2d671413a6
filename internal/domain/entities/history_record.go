package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// HistoryRecord is a single clinical event in a patient's file.
// PatientFile never looks inside it; it only stores records in insertion order.
type HistoryRecord struct {
	ID         uuid.UUID       `json:"id"`
	Kind       string          `json:"kind"` // e.g. "encounter", "diagnosis", "note"
	RecordData json.RawMessage `json:"record_data"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// NewHistoryRecord creates a record with a fresh random ID.
func NewHistoryRecord(kind string, data json.RawMessage, recordedAt time.Time) HistoryRecord {
	return HistoryRecord{
		ID:         uuid.New(),
		Kind:       kind,
		RecordData: data,
		RecordedAt: recordedAt,
	}
}
