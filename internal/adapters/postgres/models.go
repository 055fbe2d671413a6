package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"patient-file-service/internal/domain/entities"
)

// patientFileRow is the patient_files table.
type patientFileRow struct {
	ID         int64              `gorm:"primaryKey;autoIncrement:false"`
	FirstName  string             `gorm:"not null"`
	SecondName *string
	LastName   string             `gorm:"not null"`
	Gender     string             `gorm:"size:16;not null"`
	Race       string             `gorm:"size:32;not null"`
	BirthDate  time.Time          `gorm:"not null"`
	DeathDate  *time.Time
	Occupation *string
	CreatedAt  time.Time          `gorm:"not null"` // gorm will default to autoCreateTime
	UpdatedAt  time.Time          `gorm:"not null"` // gorm will default to autoUpdateTime
	History    []historyRecordRow `gorm:"foreignKey:PatientFileID;constraint:OnDelete:CASCADE"`
}

func (patientFileRow) TableName() string { return "patient_files" }

// historyRecordRow is the history_records table. A row is keyed by its file and
// position, so the same record appended twice is stored twice.
type historyRecordRow struct {
	PatientFileID int64     `gorm:"primaryKey;autoIncrement:false"`
	Position      int       `gorm:"primaryKey;autoIncrement:false"`
	ID            uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind          string    `gorm:"size:64;not null"`
	RecordData    *string   `gorm:"type:jsonb"`
	RecordedAt    time.Time `gorm:"not null"`
}

func (historyRecordRow) TableName() string { return "history_records" }

func toPatientFileRow(f *entities.PatientFile) patientFileRow {
	return patientFileRow{
		ID:         f.ID(),
		FirstName:  f.FirstName(),
		SecondName: f.SecondName(),
		LastName:   f.LastName(),
		Gender:     f.Gender().String(),
		Race:       f.Race().String(),
		BirthDate:  f.BirthDate(),
		DeathDate:  f.DeathDate(),
		Occupation: f.Occupation(),
	}
}

func toHistoryRows(f *entities.PatientFile) []historyRecordRow {
	history := f.History()
	rows := make([]historyRecordRow, 0, len(history))
	for i, rec := range history {
		row := historyRecordRow{
			ID:            rec.ID,
			PatientFileID: f.ID(),
			Position:      i,
			Kind:          rec.Kind,
			RecordedAt:    rec.RecordedAt,
		}
		if len(rec.RecordData) > 0 {
			data := string(rec.RecordData)
			row.RecordData = &data
		}
		rows = append(rows, row)
	}
	return rows
}

// pendingHistoryRows drops the rows at positions already stored. History is
// append-only, so only the tail past the stored count is new.
func pendingHistoryRows(rows []historyRecordRow, stored int64) []historyRecordRow {
	if stored >= int64(len(rows)) {
		return nil
	}
	if stored < 0 {
		stored = 0
	}
	return rows[stored:]
}

// toPatientFile rebuilds the entity through the builder, so the age is derived
// again with the given clock. Rows with a death date before the birth date
// are still loaded.
func toPatientFile(row patientFileRow, clock entities.Clock) (*entities.PatientFile, error) {
	gender, err := entities.ParseGender(row.Gender)
	if err != nil {
		return nil, fmt.Errorf("patient file %d: %w", row.ID, err)
	}
	race, err := entities.ParseRace(row.Race)
	if err != nil {
		return nil, fmt.Errorf("patient file %d: %w", row.ID, err)
	}

	history := make([]entities.HistoryRecord, 0, len(row.History))
	for _, h := range row.History {
		rec := entities.HistoryRecord{
			ID:         h.ID,
			Kind:       h.Kind,
			RecordedAt: h.RecordedAt,
		}
		if h.RecordData != nil {
			rec.RecordData = json.RawMessage(*h.RecordData)
		}
		history = append(history, rec)
	}

	return entities.NewPatientFileBuilder(entities.WithClock(clock), entities.WithoutDateOrderCheck()).
		ID(row.ID).
		FirstName(row.FirstName).
		SecondName(row.SecondName).
		LastName(row.LastName).
		Gender(gender).
		Race(race).
		BirthDate(row.BirthDate).
		DeathDate(row.DeathDate).
		Occupation(row.Occupation).
		SetHistory(history).
		Build()
}
