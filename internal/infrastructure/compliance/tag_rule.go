package compliance

import (
	"fmt"
	"strings"

	"infragen/internal/domain/entity"
	"infragen/internal/domain/repository"
)

// TagAnnotator scans a document for the rule's tag literals. It does not parse
// the document, a single occurrence anywhere is enough.
type TagAnnotator struct {
	rule entity.ComplianceRule
}

func NewTagAnnotator(rule entity.ComplianceRule) repository.ComplianceAnnotator {
	return &TagAnnotator{rule: rule}
}

func NewSecurityTagsAnnotator() repository.ComplianceAnnotator {
	return NewTagAnnotator(entity.SecurityTagsRule)
}

// Missing returns the required tags that do not occur in doc.
func (a *TagAnnotator) Missing(doc string) []string {
	var missing []string
	for _, tag := range a.rule.RequiredTags {
		if !strings.Contains(doc, tag) {
			missing = append(missing, tag)
		}
	}
	return missing
}

// Annotate prepends a warning comment when a required tag is missing.
// The warning names every required tag, so annotating twice changes nothing.
func (a *TagAnnotator) Annotate(doc string) string {
	if len(a.Missing(doc)) == 0 {
		return doc
	}
	return a.Warning() + "\n\n" + doc
}

func (a *TagAnnotator) Warning() string {
	return fmt.Sprintf("# WARNING: check that every resource has the required tags: %s",
		strings.Join(a.rule.RequiredTags, ", "))
}
