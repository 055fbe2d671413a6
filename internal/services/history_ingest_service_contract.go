package services

import (
	"context"
	"errors"

	"patient-file-service/internal/domain/entities"
)

// ErrServiceStopped is returned when work is submitted after shutdown.
var ErrServiceStopped = errors.New("history ingest service is shutting down, cannot accept new jobs")

// HistoryJob appends one record to one patient file.
type HistoryJob struct {
	PatientFileID int64
	Record        entities.HistoryRecord
}

// HistoryIngestServiceContract appends history records asynchronously.
type HistoryIngestServiceContract interface {
	// Start launches the workers. Cancelling ctx shuts the service down.
	Start(ctx context.Context) error
	// Stop drains queued jobs and waits for the workers, or until ctx is done.
	Stop(ctx context.Context) error
	// Submit queues a job, blocking while the queue is full.
	Submit(ctx context.Context, job HistoryJob) error
}
