package repositories

import (
	"context"
	"errors"

	"patient-file-service/internal/domain/entities"
)

// ErrPatientFileNotFound is returned when no file exists for the requested ID.
var ErrPatientFileNotFound = errors.New("patient file not found")

// PatientFileRepositoryContract persists patient files and their history.
// Implementations call AcknowledgeChanges on a file once its state is durably saved.
type PatientFileRepositoryContract interface {
	Create(ctx context.Context, file *entities.PatientFile) error
	GetByID(ctx context.Context, id int64) (*entities.PatientFile, error)
	// Update is a no-op for files that report no changes.
	Update(ctx context.Context, file *entities.PatientFile) error
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]*entities.PatientFile, error)
}
