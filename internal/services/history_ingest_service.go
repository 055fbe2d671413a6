package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

var _ HistoryIngestServiceContract = (*HistoryIngestServiceImpl)(nil)

// HistoryIngestServiceImpl runs a pool of workers that append history records.
// Jobs are routed by patient file ID, so all jobs for one file are handled by
// the same worker in submission order and a file is never mutated concurrently.
type HistoryIngestServiceImpl struct {
	files      PatientFileServiceContract
	logger     zerolog.Logger
	jobChans   []chan HistoryJob // one queue per worker
	numWorkers int
	wg         sync.WaitGroup

	mu       sync.RWMutex // guards stopped and registration in submits
	stopped  bool
	submits  sync.WaitGroup // in-flight Submit calls; queues close after they return
	stopOnce sync.Once
	done     chan struct{}

	processed atomic.Int64
	failed    atomic.Int64
}

// NewHistoryIngestService creates the service; workers start with Start.
func NewHistoryIngestService(files PatientFileServiceContract, logger zerolog.Logger, numWorkers, queueSize int) *HistoryIngestServiceImpl {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	jobChans := make([]chan HistoryJob, numWorkers)
	for i := range jobChans {
		jobChans[i] = make(chan HistoryJob, queueSize)
	}
	return &HistoryIngestServiceImpl{
		files:      files,
		logger:     logger.With().Str("service", "history_ingest").Logger(),
		jobChans:   jobChans,
		numWorkers: numWorkers,
		done:       make(chan struct{}),
	}
}

// worker processes jobs from its queue until the queue is closed.
func (s *HistoryIngestServiceImpl) worker(ctx context.Context, id int, jobs <-chan HistoryJob) {
	defer s.wg.Done()
	s.logger.Debug().Int("worker", id).Msg("history worker started")
	for job := range jobs {
		s.processJob(ctx, id, job)
	}
	s.logger.Debug().Int("worker", id).Msg("history worker stopped")
}

func (s *HistoryIngestServiceImpl) processJob(ctx context.Context, workerID int, job HistoryJob) {
	if err := s.files.AppendHistory(ctx, job.PatientFileID, job.Record); err != nil {
		s.failed.Add(1)
		s.logger.Error().Err(err).
			Int("worker", workerID).
			Int64("patient_file_id", job.PatientFileID).
			Str("record_id", job.Record.ID.String()).
			Msg("failed to append history record")
		return
	}
	s.processed.Add(1)
}

func (s *HistoryIngestServiceImpl) Start(ctx context.Context) error {
	// Jobs already queued are finished even after ctx is cancelled.
	workCtx := context.WithoutCancel(ctx)

	s.wg.Add(s.numWorkers)
	for i, jobs := range s.jobChans {
		go s.worker(workCtx, i+1, jobs)
	}
	s.logger.Info().Int("workers", s.numWorkers).Msg("history ingest service started")

	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("history ingest context cancelled, shutting down")
			s.shutdown()
		case <-s.done:
		}
	}()
	return nil
}

// shutdown rejects new submissions, waits for in-flight ones to return, then
// closes the queues and waits for the workers to drain them.
func (s *HistoryIngestServiceImpl) shutdown() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stopped = true
		s.mu.Unlock()
		close(s.done)

		s.submits.Wait()
		for _, jobs := range s.jobChans {
			close(jobs)
		}
	})
	s.wg.Wait()
}

func (s *HistoryIngestServiceImpl) Stop(ctx context.Context) error {
	finished := make(chan struct{})
	go func() {
		s.shutdown()
		close(finished)
	}()

	select {
	case <-finished:
		s.logger.Info().
			Int64("processed", s.processed.Load()).
			Int64("failed", s.failed.Load()).
			Msg("history ingest service stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *HistoryIngestServiceImpl) Submit(ctx context.Context, job HistoryJob) error {
	s.mu.RLock()
	if s.stopped {
		s.mu.RUnlock()
		return ErrServiceStopped
	}
	s.submits.Add(1)
	s.mu.RUnlock()
	defer s.submits.Done()

	jobs := s.jobChans[uint64(job.PatientFileID)%uint64(s.numWorkers)]
	select {
	case jobs <- job:
		return nil
	case <-s.done:
		return ErrServiceStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Processed is the number of jobs appended successfully.
func (s *HistoryIngestServiceImpl) Processed() int64 { return s.processed.Load() }

// Failed is the number of jobs that could not be appended.
func (s *HistoryIngestServiceImpl) Failed() int64 { return s.failed.Load() }
