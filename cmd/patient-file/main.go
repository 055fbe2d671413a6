package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"patient-file-service/internal/adapters/postgres"
	"patient-file-service/internal/config"
	"patient-file-service/internal/domain/entities"
	"patient-file-service/internal/fhir/mappers"
	"patient-file-service/internal/services"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "patient-file",
		Short:        "Patient file maintenance tool",
		SilenceUsage: true,
	}
	rootCmd.SetOut(out)

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(ageCmd())
	return rootCmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the patient file tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(true)
			if err != nil {
				return err
			}
			db, err := postgres.Open(cfg.DatabaseURL)
			if err != nil {
				logger.Error().Err(err).Msg("failed to connect to database")
				return err
			}
			if err := postgres.Migrate(db); err != nil {
				logger.Error().Err(err).Msg("migration failed")
				return err
			}
			logger.Info().Msg("migration complete")
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored patient file as a FHIR Patient resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid patient file id %q: %w", args[0], err)
			}
			cfg, logger, err := loadConfig(true)
			if err != nil {
				return err
			}
			db, err := postgres.Open(cfg.DatabaseURL)
			if err != nil {
				logger.Error().Err(err).Msg("failed to connect to database")
				return err
			}

			files := services.NewPatientFileService(postgres.NewPatientFileRepository(db, logger), logger)
			file, err := files.Get(context.Background(), id)
			if err != nil {
				return err
			}
			raw, err := mappers.MapPatientFileToFHIR(file)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return nil
		},
	}
}

func ageCmd() *cobra.Command {
	var birth, death string
	cmd := &cobra.Command{
		Use:   "age",
		Short: "Print the age derived from a birth date and optional death date",
		RunE: func(cmd *cobra.Command, args []string) error {
			age, err := deriveAge(birth, death, time.Now)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), age)
			return nil
		},
	}
	cmd.Flags().StringVar(&birth, "birth", "", "birth date (RFC 3339)")
	cmd.Flags().StringVar(&death, "death", "", "death date (RFC 3339), empty for a living patient")
	_ = cmd.MarkFlagRequired("birth")
	return cmd
}

// deriveAge builds a throwaway file so the age follows the same rules as stored files.
func deriveAge(birth, death string, clock entities.Clock) (int, error) {
	birthDate, err := time.Parse(time.RFC3339, birth)
	if err != nil {
		return 0, fmt.Errorf("invalid --birth: %w", err)
	}
	b := entities.NewPatientFileBuilder(entities.WithClock(clock)).
		FirstName("-").
		LastName("-").
		Race(entities.RaceOther).
		BirthDate(birthDate).
		ResetHistory()
	if death != "" {
		deathDate, err := time.Parse(time.RFC3339, death)
		if err != nil {
			return 0, fmt.Errorf("invalid --death: %w", err)
		}
		b.DeathDate(&deathDate)
	}
	file, err := b.Build()
	if err != nil {
		return 0, err
	}
	return file.Age(), nil
}

func loadConfig(needDB bool) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	logger := cfg.NewLogger()
	if needDB {
		if err := cfg.RequireDatabase(); err != nil {
			logger.Error().Err(err).Msg("invalid configuration")
			return nil, logger, err
		}
	}
	return cfg, logger, nil
}
