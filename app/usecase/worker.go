package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"infragen/internal/domain/entity"
	"infragen/internal/domain/repository"
	"infragen/internal/infrastructure/metrics"
)

// ConfigGeneratorService picks up pending jobs and runs them through the
// generation pipeline.
type ConfigGeneratorService struct {
	jobsRepo  repository.JobRepository
	generator GenerationUsecase

	logger *slog.Logger

	pollInterval   time.Duration
	processTimeout time.Duration

	// control
	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	stopped   chan struct{}
}

func NewConfigGeneratorService(
	jr repository.JobRepository,
	generator GenerationUsecase,
	pollInterval time.Duration,
	logger *slog.Logger,
) *ConfigGeneratorService {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &ConfigGeneratorService{
		jobsRepo:       jr,
		generator:      generator,
		logger:         logger,
		pollInterval:   pollInterval,
		processTimeout: time.Minute,
		stop:           make(chan struct{}),
		stopped:        make(chan struct{}),
	}
}

func (s *ConfigGeneratorService) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		go s.loop(ctx)
	})
}

func (s *ConfigGeneratorService) loop(ctx context.Context) {
	defer close(s.stopped)
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	s.logger.Info("ConfigGeneratorService started", "interval", s.pollInterval)

	if err := s.RunOnce(ctx); err != nil {
		s.logger.Warn("initial runOnce failed", "err", err)
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("ConfigGeneratorService context canceled")
			return
		case <-s.stop:
			s.logger.Info("ConfigGeneratorService stopped by Stop()")
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.logger.Warn("runOnce failed", "err", err)
			}
		}
	}
}

// Stop ends the polling loop and waits for it. It is a no-op when Start was never called.
func (s *ConfigGeneratorService) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	started := true
	s.startOnce.Do(func() {
		started = false
		close(s.stopped)
	})
	<-s.stopped
	if started {
		s.logger.Info("ConfigGeneratorService fully stopped")
	}
}

// RunOnce processes every job pending at call time, one after another.
func (s *ConfigGeneratorService) RunOnce(ctx context.Context) error {
	jobs, err := s.jobsRepo.ListByStatus(ctx, entity.JobStatusPending)
	if err != nil {
		return fmt.Errorf("list pending jobs: %w", err)
	}
	if len(jobs) == 0 {
		return nil
	}

	s.logger.Debug("found pending jobs", "count", len(jobs))

	for _, job := range jobs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.jobsRepo.UpdateStatus(ctx, job.ID, entity.JobStatusRunning); err != nil {
			s.logger.Warn("failed to set job running; skip", "job_id", job.ID, "err", err)
			continue
		}
		job.UpdateStatus(entity.JobStatusRunning)
		metrics.IncJobStatusChange(string(entity.JobStatusRunning))

		procCtx, cancel := context.WithTimeout(ctx, s.processTimeout)
		if _, err := s.generator.Process(procCtx, job); err != nil {
			s.logger.Error("processJob failed", "job_id", job.ID, "err", err)
		}
		cancel()
	}

	return nil
}
