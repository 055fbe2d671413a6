package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"patient-file-service/internal/domain/entities"
	"patient-file-service/internal/domain/repositories"
)

// PatientFileServiceImpl implements PatientFileServiceContract on top of a repository.
type PatientFileServiceImpl struct {
	repo   repositories.PatientFileRepositoryContract
	logger zerolog.Logger
}

// NewPatientFileService creates a new instance of PatientFileServiceImpl.
func NewPatientFileService(repo repositories.PatientFileRepositoryContract, logger zerolog.Logger) PatientFileServiceContract {
	return &PatientFileServiceImpl{
		repo:   repo,
		logger: logger.With().Str("service", "patient_file").Logger(),
	}
}

func (s *PatientFileServiceImpl) Register(ctx context.Context, builder *entities.PatientFileBuilder) (*entities.PatientFile, error) {
	file, err := builder.Build()
	if err != nil {
		s.logger.Warn().Err(err).Msg("rejected patient file")
		return nil, err
	}
	if err := s.repo.Create(ctx, file); err != nil {
		s.logger.Error().Err(err).Int64("id", file.ID()).Msg("failed to store patient file")
		return nil, err
	}
	s.logger.Info().Object("patient_file", file).Msg("patient file registered")
	return file, nil
}

func (s *PatientFileServiceImpl) Get(ctx context.Context, id int64) (*entities.PatientFile, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PatientFileServiceImpl) ChangeGender(ctx context.Context, id int64, gender entities.Gender) error {
	return s.mutate(ctx, id, "change gender", func(f *entities.PatientFile) error {
		f.SetGender(gender)
		return nil
	})
}

func (s *PatientFileServiceImpl) RecordDeath(ctx context.Context, id int64, deathDate *time.Time) error {
	return s.mutate(ctx, id, "record death", func(f *entities.PatientFile) error {
		if deathDate != nil && deathDate.Before(f.BirthDate()) {
			return entities.ErrDeathBeforeBirth
		}
		f.SetDeathDate(deathDate)
		return nil
	})
}

func (s *PatientFileServiceImpl) ChangeOccupation(ctx context.Context, id int64, occupation *string) error {
	return s.mutate(ctx, id, "change occupation", func(f *entities.PatientFile) error {
		f.SetOccupation(occupation)
		return nil
	})
}

func (s *PatientFileServiceImpl) AppendHistory(ctx context.Context, id int64, record entities.HistoryRecord) error {
	return s.mutate(ctx, id, "append history", func(f *entities.PatientFile) error {
		f.AppendHistory(record)
		return nil
	})
}

func (s *PatientFileServiceImpl) mutate(ctx context.Context, id int64, op string, apply func(*entities.PatientFile) error) error {
	file, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := apply(file); err != nil {
		s.logger.Warn().Err(err).Int64("id", id).Str("op", op).Msg("rejected patient file change")
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.Update(ctx, file); err != nil {
		s.logger.Error().Err(err).Int64("id", id).Str("op", op).Msg("failed to save patient file")
		return fmt.Errorf("%s: %w", op, err)
	}
	s.logger.Debug().Object("patient_file", file).Str("op", op).Msg("patient file saved")
	return nil
}
