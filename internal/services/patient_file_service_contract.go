package services

import (
	"context"
	"time"

	"patient-file-service/internal/domain/entities"
)

// PatientFileServiceContract defines the operations on stored patient files.
// Every mutation loads the file, changes it through the entity API and saves it.
type PatientFileServiceContract interface {
	// Register builds the file and stores it.
	Register(ctx context.Context, builder *entities.PatientFileBuilder) (*entities.PatientFile, error)
	Get(ctx context.Context, id int64) (*entities.PatientFile, error)
	ChangeGender(ctx context.Context, id int64, gender entities.Gender) error
	// RecordDeath sets the date of death; nil marks the patient as alive again.
	RecordDeath(ctx context.Context, id int64, deathDate *time.Time) error
	ChangeOccupation(ctx context.Context, id int64, occupation *string) error
	AppendHistory(ctx context.Context, id int64, record entities.HistoryRecord) error
}
