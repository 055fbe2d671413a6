package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // registers the "postgres" database/sql driver
	"github.com/rs/zerolog"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"patient-file-service/internal/domain/entities"
	"patient-file-service/internal/domain/repositories"
)

// Compile-time check
var _ repositories.PatientFileRepositoryContract = (*PatientFileRepository)(nil)

// Open connects to PostgreSQL through lib/pq.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		DriverName: "postgres",
		DSN:        dsn,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the patient_files and history_records tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&patientFileRow{}, &historyRecordRow{}); err != nil {
		return fmt.Errorf("migrate patient file tables: %w", err)
	}
	return nil
}

// PatientFileRepository implements PatientFileRepositoryContract with GORM.
type PatientFileRepository struct {
	db     *gorm.DB
	logger zerolog.Logger
	clock  entities.Clock // used to derive ages of loaded files
}

// Option configures a PatientFileRepository.
type Option func(*PatientFileRepository)

// WithClock sets the clock used when rebuilding loaded files.
func WithClock(clock entities.Clock) Option {
	return func(r *PatientFileRepository) {
		if clock != nil {
			r.clock = clock
		}
	}
}

func NewPatientFileRepository(db *gorm.DB, logger zerolog.Logger, opts ...Option) *PatientFileRepository {
	r := &PatientFileRepository{
		db:     db,
		logger: logger.With().Str("component", "patient_file_repository").Logger(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *PatientFileRepository) Create(ctx context.Context, file *entities.PatientFile) error {
	row := toPatientFileRow(file)
	history := toHistoryRows(file)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return err
		}
		if len(history) > 0 {
			if err := tx.Create(&history).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create patient file %d: %w", file.ID(), err)
	}

	file.AcknowledgeChanges()
	r.logger.Debug().Object("patient_file", file).Msg("patient file created")
	return nil
}

func (r *PatientFileRepository) GetByID(ctx context.Context, id int64) (*entities.PatientFile, error) {
	var row patientFileRow
	err := r.db.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("patient file %d: %w", id, repositories.ErrPatientFileNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get patient file %d: %w", id, err)
	}
	return toPatientFile(row, r.clock)
}

// Update writes the mutable columns and the history records past the stored count.
// Files without pending changes are skipped.
func (r *PatientFileRepository) Update(ctx context.Context, file *entities.PatientFile) error {
	if !file.IsChanged() {
		r.logger.Debug().Int64("id", file.ID()).Msg("patient file unchanged, skipping update")
		return nil
	}

	row := toPatientFileRow(file)
	history := toHistoryRows(file)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&patientFileRow{}).
			Where("id = ?", row.ID).
			Updates(map[string]interface{}{
				"gender":     row.Gender,
				"death_date": row.DeathDate,
				"occupation": row.Occupation,
				"updated_at": r.clock(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repositories.ErrPatientFileNotFound
		}
		var stored int64
		if err := tx.Model(&historyRecordRow{}).Where("patient_file_id = ?", row.ID).Count(&stored).Error; err != nil {
			return err
		}
		if pending := pendingHistoryRows(history, stored); len(pending) > 0 {
			if err := tx.Create(&pending).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update patient file %d: %w", file.ID(), err)
	}

	file.AcknowledgeChanges()
	r.logger.Debug().Object("patient_file", file).Msg("patient file updated")
	return nil
}

func (r *PatientFileRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("patient_file_id = ?", id).Delete(&historyRecordRow{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&patientFileRow{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repositories.ErrPatientFileNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete patient file %d: %w", id, err)
	}
	r.logger.Debug().Int64("id", id).Msg("patient file deleted")
	return nil
}

func (r *PatientFileRepository) ListAll(ctx context.Context) ([]*entities.PatientFile, error) {
	var rows []patientFileRow
	err := r.db.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list patient files: %w", err)
	}

	files := make([]*entities.PatientFile, 0, len(rows))
	for _, row := range rows {
		f, err := toPatientFile(row, r.clock)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}
