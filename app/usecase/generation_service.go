package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"infragen/internal/domain/entity"
	"infragen/internal/domain/repository"
	"infragen/internal/infrastructure/inventory"
	"infragen/internal/infrastructure/metrics"
)

// ArtifactStore persists generated documents outside the database.
type ArtifactStore interface {
	SaveFiles(ctx context.Context, files []*entity.ConfigFile, jobID string) error
	SaveLatest(ctx context.Context, content string) error
	DeleteRequest(ctx context.Context, jobID string) error
}

type GenerationUsecase interface {
	Generate(ctx context.Context, description string) (*entity.GenerationResult, error)
	Process(ctx context.Context, job *entity.Job) (*entity.GenerationResult, error)
}

var _ GenerationUsecase = (*GenerationService)(nil)

// GenerationService runs description -> config -> document -> annotated
// document, and records the job and its files.
type GenerationService struct {
	extractor repository.InfraExtractor
	generator repository.CodeGenerator
	annotator repository.ComplianceAnnotator
	scanner   repository.ResourceScanner

	jobsRepo   repository.JobRepository
	configRepo repository.ConfigFileRepository
	artifacts  ArtifactStore // optional

	maxServers int
	logger     *slog.Logger
}

type Pipeline struct {
	Extractor repository.InfraExtractor
	Generator repository.CodeGenerator
	Annotator repository.ComplianceAnnotator
	Scanner   repository.ResourceScanner
}

func NewGenerationService(
	p Pipeline,
	jr repository.JobRepository,
	cr repository.ConfigFileRepository,
	artifacts ArtifactStore,
	maxServers int,
	logger *slog.Logger,
) *GenerationService {
	return &GenerationService{
		extractor:  p.Extractor,
		generator:  p.Generator,
		annotator:  p.Annotator,
		scanner:    p.Scanner,
		jobsRepo:   jr,
		configRepo: cr,
		artifacts:  artifacts,
		maxServers: maxServers,
		logger:     logger,
	}
}

func (s *GenerationService) Generate(ctx context.Context, description string) (*entity.GenerationResult, error) {
	if description == "" {
		return nil, entity.ErrEmptyDescription
	}

	// Stored as running so the worker only sees jobs queued through JobService.
	job := entity.NewJob(description)
	job.UpdateStatus(entity.JobStatusRunning)
	if err := s.jobsRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return s.Process(ctx, job)
}

// Process runs the pipeline for job and stores the outcome on it. A failing
// job is saved with status failed and the error is returned.
func (s *GenerationService) Process(ctx context.Context, job *entity.Job) (*entity.GenerationResult, error) {
	start := time.Now()

	res, err := s.build(job.Description)
	if err != nil {
		s.fail(ctx, job, err)
		return nil, err
	}
	res.JobID = job.ID

	files := []*entity.ConfigFile{entity.NewTerraformFile(job.ID, res.TerraformCode, res.MissingTags)}
	if err := s.configRepo.SaveFiles(ctx, files); err != nil {
		err = fmt.Errorf("save files: %w", err)
		s.fail(ctx, job, err)
		return nil, err
	}
	if s.artifacts != nil {
		if err := s.artifacts.SaveFiles(ctx, files, job.ID); err != nil {
			err = fmt.Errorf("write files: %w", err)
			s.fail(ctx, job, err)
			return nil, err
		}
		if err := s.artifacts.SaveLatest(ctx, res.TerraformCode); err != nil {
			err = fmt.Errorf("write %s: %w", entity.MainFileName, err)
			s.fail(ctx, job, err)
			return nil, err
		}
	}

	job.Complete(res.Infrastructure, res.Resources)
	if err := s.jobsRepo.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}

	metrics.IncJobStatusChange(string(entity.JobStatusCompleted))
	metrics.IncGeneration(res.Infrastructure.Provider.String())
	metrics.ObserveJobDuration(time.Since(start))

	s.logger.Info("job processed",
		"job_id", job.ID,
		"provider", res.Infrastructure.Provider,
		"servers", res.Infrastructure.Servers,
		"databases", res.Infrastructure.Databases,
		"security_groups", res.Infrastructure.SecurityGroups,
		"duration", time.Since(start),
	)
	return res, nil
}

func (s *GenerationService) build(description string) (*entity.GenerationResult, error) {
	cfg := s.extractor.Extract(description)
	if s.maxServers > 0 && cfg.Servers > s.maxServers {
		return nil, fmt.Errorf("%d servers requested, limit is %d: %w", cfg.Servers, s.maxServers, entity.ErrTooManyResources)
	}

	raw := s.generator.Generate(cfg)
	missing := s.annotator.Missing(raw)
	doc := s.annotator.Annotate(raw)
	if len(missing) > 0 {
		metrics.IncComplianceWarning(entity.SecurityTagsRule.Name)
		s.logger.Warn("document is missing required tags", "missing", missing)
	}

	var resources []string
	if s.scanner != nil {
		addrs, err := s.scanner.Scan(entity.MainFileName, doc)
		if err != nil {
			metrics.IncError("inventory", "scan_error")
			s.logger.Warn("resource inventory failed", "err", err)
		}
		resources = addrs
		countResources(resources)
	}

	return &entity.GenerationResult{
		Infrastructure: cfg,
		TerraformCode:  doc,
		Resources:      resources,
		MissingTags:    missing,
	}, nil
}

func (s *GenerationService) fail(ctx context.Context, job *entity.Job, cause error) {
	job.Fail(cause)
	if err := s.jobsRepo.Update(ctx, job); err != nil {
		s.logger.Warn("failed to mark job failed", "job_id", job.ID, "err", err)
	}
	metrics.IncJobStatusChange(string(entity.JobStatusFailed))
	s.logger.Error("job failed", "job_id", job.ID, "err", cause)
}

func countResources(addrs []string) {
	counts := make(map[string]int)
	for _, a := range addrs {
		t := inventory.ResourceType(a)
		if t == "output" {
			continue
		}
		counts[t]++
	}
	for t, n := range counts {
		metrics.AddGeneratedResources(t, n)
	}
}
