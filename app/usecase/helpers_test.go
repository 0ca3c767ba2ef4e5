package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"infragen/internal/domain/entity"
	"infragen/internal/domain/repository"
	"infragen/internal/infrastructure/compliance"
	"infragen/internal/infrastructure/extractor"
	"infragen/internal/infrastructure/generator"
	"infragen/internal/infrastructure/inventory"
	"infragen/internal/infrastructure/store/filesystem"
	"infragen/internal/infrastructure/store/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPipeline() Pipeline {
	return Pipeline{
		Extractor: extractor.NewKeywordExtractor(),
		Generator: generator.NewTerraformGenerator(),
		Annotator: compliance.NewSecurityTagsAnnotator(),
		Scanner:   inventory.NewHCLScanner(),
	}
}

type fixture struct {
	jobs       repository.JobRepository
	files      repository.ConfigFileRepository
	artifacts  *filesystem.FileRepository
	generation *GenerationService
	jobService *JobService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	artifacts, err := filesystem.NewFileRepository(t.TempDir())
	if err != nil {
		t.Fatalf("file repo: %v", err)
	}
	f := &fixture{
		jobs:      memory.NewJobRepo(),
		files:     memory.NewConfigFileRepo(),
		artifacts: artifacts,
	}
	f.generation = NewGenerationService(testPipeline(), f.jobs, f.files, f.artifacts, 100, testLogger())
	f.jobService = NewJobService(f.jobs, f.files, f.artifacts)
	return f
}

var errStore = errors.New("store unavailable")

// failingFiles fails every write.
type failingFiles struct {
	repository.ConfigFileRepository
}

func (failingFiles) SaveFiles(ctx context.Context, files []*entity.ConfigFile) error {
	return errStore
}

// fixedGenerator emits a document without compliance tags.
type fixedGenerator struct{}

func (fixedGenerator) Generate(cfg entity.InfrastructureConfig) string {
	return "resource \"aws_vpc\" \"main\" {\n  cidr_block = \"10.0.0.0/16\"\n}\n"
}
