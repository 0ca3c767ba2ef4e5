package inventory

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"

	"infragen/internal/domain/repository"
)

var documentSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "terraform"},
		{Type: "provider", LabelNames: []string{"name"}},
		{Type: "resource", LabelNames: []string{"type", "name"}},
		{Type: "data", LabelNames: []string{"type", "name"}},
		{Type: "variable", LabelNames: []string{"name"}},
		{Type: "output", LabelNames: []string{"name"}},
		{Type: "module", LabelNames: []string{"name"}},
	},
}

// HCLScanner reads the block headers of a terraform document.
type HCLScanner struct{}

func NewHCLScanner() repository.ResourceScanner {
	return &HCLScanner{}
}

// Scan returns resource addresses (type.name) followed by output addresses
// (output.name), each in document order.
func (s *HCLScanner) Scan(fileName, doc string) ([]string, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL([]byte(doc), fileName)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %w", fileName, diags)
	}

	content, _, diags := file.Body.PartialContent(documentSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("read blocks of %s: %w", fileName, diags)
	}

	var addrs []string
	for _, block := range content.Blocks.OfType("resource") {
		addrs = append(addrs, block.Labels[0]+"."+block.Labels[1])
	}
	for _, block := range content.Blocks.OfType("output") {
		addrs = append(addrs, "output."+block.Labels[0])
	}
	return addrs, nil
}

// ResourceType is the part of an address before the first dot.
func ResourceType(addr string) string {
	typ, _, _ := strings.Cut(addr, ".")
	return typ
}
