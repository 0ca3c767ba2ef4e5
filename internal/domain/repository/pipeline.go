package repository

import "infragen/internal/domain/entity"

// InfraExtractor turns a free-text description into a resource topology.
type InfraExtractor interface {
	Extract(description string) entity.InfrastructureConfig
}

// CodeGenerator renders a topology as a terraform document.
type CodeGenerator interface {
	Generate(cfg entity.InfrastructureConfig) string
}

// ComplianceAnnotator checks a document and flags it when a rule is not met.
type ComplianceAnnotator interface {
	Annotate(doc string) string
	Missing(doc string) []string
}
