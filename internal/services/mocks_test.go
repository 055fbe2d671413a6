package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"patient-file-service/internal/domain/entities"
	"patient-file-service/internal/domain/repositories"
)

// --- MockPatientFileRepository ---
// Compile-time check to ensure MockPatientFileRepository implements PatientFileRepositoryContract
var _ repositories.PatientFileRepositoryContract = (*MockPatientFileRepository)(nil)

// MockPatientFileRepository is a mock implementation of PatientFileRepositoryContract.
type MockPatientFileRepository struct {
	CreateFunc  func(ctx context.Context, file *entities.PatientFile) error
	GetByIDFunc func(ctx context.Context, id int64) (*entities.PatientFile, error)
	UpdateFunc  func(ctx context.Context, file *entities.PatientFile) error
	DeleteFunc  func(ctx context.Context, id int64) error
	ListAllFunc func(ctx context.Context) ([]*entities.PatientFile, error)

	CreateFuncCallCount int32
	UpdateFuncCallCount int32
}

func (m *MockPatientFileRepository) Create(ctx context.Context, file *entities.PatientFile) error {
	atomic.AddInt32(&m.CreateFuncCallCount, 1)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, file)
	}
	return nil
}

func (m *MockPatientFileRepository) GetByID(ctx context.Context, id int64) (*entities.PatientFile, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, errors.New("GetByIDFunc not implemented in mock")
}

func (m *MockPatientFileRepository) Update(ctx context.Context, file *entities.PatientFile) error {
	atomic.AddInt32(&m.UpdateFuncCallCount, 1)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, file)
	}
	return errors.New("UpdateFunc not implemented in mock")
}

func (m *MockPatientFileRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return errors.New("DeleteFunc not implemented in mock")
}

func (m *MockPatientFileRepository) ListAll(ctx context.Context) ([]*entities.PatientFile, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

// newInMemoryRepository wires the mock to a map. Stored files are copies, so
// callers never share an instance, the same as with a real database.
func newInMemoryRepository() (*MockPatientFileRepository, *sync.Map) {
	store := &sync.Map{}
	m := &MockPatientFileRepository{}
	m.CreateFunc = func(ctx context.Context, file *entities.PatientFile) error {
		if _, loaded := store.LoadOrStore(file.ID(), cloneFile(file)); loaded {
			return fmt.Errorf("patient file %d already exists", file.ID())
		}
		file.AcknowledgeChanges()
		return nil
	}
	m.GetByIDFunc = func(ctx context.Context, id int64) (*entities.PatientFile, error) {
		v, ok := store.Load(id)
		if !ok {
			return nil, repositories.ErrPatientFileNotFound
		}
		return cloneFile(v.(*entities.PatientFile)), nil
	}
	m.UpdateFunc = func(ctx context.Context, file *entities.PatientFile) error {
		if !file.IsChanged() {
			return nil
		}
		if _, ok := store.Load(file.ID()); !ok {
			return repositories.ErrPatientFileNotFound
		}
		store.Store(file.ID(), cloneFile(file))
		file.AcknowledgeChanges()
		return nil
	}
	return m, store
}

func cloneFile(f *entities.PatientFile) *entities.PatientFile {
	clone, err := entities.NewPatientFileBuilder(entities.WithoutDateOrderCheck()).
		ID(f.ID()).
		FirstName(f.FirstName()).
		SecondName(f.SecondName()).
		LastName(f.LastName()).
		Gender(f.Gender()).
		Race(f.Race()).
		BirthDate(f.BirthDate()).
		DeathDate(f.DeathDate()).
		Occupation(f.Occupation()).
		SetHistory(f.History()).
		Build()
	if err != nil {
		panic(err)
	}
	return clone
}
