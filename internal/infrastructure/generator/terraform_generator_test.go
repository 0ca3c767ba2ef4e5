package generator

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infragen/internal/domain/entity"
)

var securityGroupRef = regexp.MustCompile(`_security_group\.main_(\d+)\.id`)

func config(provider entity.Provider, servers, databases, securityGroups int) entity.InfrastructureConfig {
	return entity.InfrastructureConfig{
		Provider:       provider,
		Servers:        servers,
		Databases:      databases,
		Networks:       1,
		SecurityGroups: securityGroups,
	}
}

func TestTerraformGenerator_BlockCounts(t *testing.T) {
	g := NewTerraformGenerator()

	tests := []entity.InfrastructureConfig{
		entity.DefaultInfrastructureConfig(),
		config(entity.ProviderAWS, 3, 1, 2),
		config(entity.ProviderAzure, 2, 1, 1),
		config(entity.ProviderGCP, 0, 0, 5),
		config(entity.ProviderOpenStack, 10, 1, 2),
	}
	for _, cfg := range tests {
		t.Run(fmt.Sprintf("%s/%d-%d-%d", cfg.Provider, cfg.Servers, cfg.Databases, cfg.SecurityGroups), func(t *testing.T) {
			doc := g.Generate(cfg)
			p := string(cfg.Provider)

			assert.Equal(t, cfg.SecurityGroups, strings.Count(doc, `resource "`+p+`_security_group"`))
			assert.Equal(t, cfg.Servers, strings.Count(doc, `resource "`+p+`_instance"`))
			assert.Equal(t, cfg.Databases, strings.Count(doc, `resource "`+p+`_db_instance"`))
			assert.Equal(t, 1, strings.Count(doc, `resource "`+p+`_vpc" "main"`))
			assert.Equal(t, 1, strings.Count(doc, `resource "`+p+`_subnet" "public"`))
			assert.Contains(t, doc, `output "vpc_id"`)
			assert.Contains(t, doc, `output "public_subnet_id"`)

			for i := 1; i <= cfg.SecurityGroups; i++ {
				assert.Contains(t, doc, fmt.Sprintf(`"%s_security_group" "main_%d"`, p, i))
			}
			for i := 1; i <= cfg.Servers; i++ {
				assert.Contains(t, doc, fmt.Sprintf(`"%s_instance" "server_%d"`, p, i))
			}
		})
	}
}

func TestTerraformGenerator_OnlyFirstSecurityGroupIsReferenced(t *testing.T) {
	doc := NewTerraformGenerator().Generate(config(entity.ProviderAWS, 4, 1, 3))

	refs := securityGroupRef.FindAllStringSubmatch(doc, -1)
	require.Len(t, refs, 5, "four servers and one database")
	for _, ref := range refs {
		assert.Equal(t, "1", ref[1])
	}
}

func TestTerraformGenerator_Header(t *testing.T) {
	doc := NewTerraformGenerator().Generate(config(entity.ProviderAzure, 0, 0, 1))

	assert.True(t, strings.HasPrefix(doc, "# Auto-generated infrastructure\n# Provider: AZURE\n"))
	assert.Contains(t, doc, `required_version = ">= 1.0"`)
	assert.Contains(t, doc, `source  = "hashicorp/azure"`)
	assert.Contains(t, doc, `version = "~> 5.0"`)
	assert.Contains(t, doc, `provider "azure" {`)
	assert.Contains(t, doc, `region = "us-east-1"`)
}

func TestTerraformGenerator_FixedValues(t *testing.T) {
	doc := NewTerraformGenerator().Generate(config(entity.ProviderAWS, 1, 1, 1))

	for _, want := range []string{
		`cidr_block           = "10.0.0.0/16"`,
		`cidr_block              = "10.0.1.0/24"`,
		`availability_zone       = "us-east-1a"`,
		`map_public_ip_on_launch = true`,
		`ami           = "ami-0c55b159cbfafe1f0"`,
		`instance_type = "t2.micro"`,
		`engine         = "mysql"`,
		`engine_version = "8.0"`,
		`password = "ChangeMe123!"`,
		`backup_window          = "03:00-04:00"`,
		`maintenance_window     = "mon:04:00-mon:05:00"`,
		`Environment = "production"`,
		`SecurityLevel = "high"`,
	} {
		assert.Contains(t, doc, want)
	}
}

func TestTerraformGenerator_NoNetwork(t *testing.T) {
	cfg := config(entity.ProviderAWS, 0, 0, 1)
	cfg.Networks = 0
	doc := NewTerraformGenerator().Generate(cfg)

	assert.NotContains(t, doc, `resource "aws_vpc"`)
	assert.NotContains(t, doc, `resource "aws_subnet"`)
}

func TestTerraformGenerator_NetworkBlockIsNotRepeated(t *testing.T) {
	cfg := config(entity.ProviderAWS, 0, 0, 1)
	cfg.Networks = 3
	doc := NewTerraformGenerator().Generate(cfg)

	assert.Equal(t, 1, strings.Count(doc, `resource "aws_vpc"`))
}

func TestTerraformGenerator_Deterministic(t *testing.T) {
	g := NewTerraformGenerator()
	cfg := config(entity.ProviderGCP, 2, 1, 2)
	assert.Equal(t, g.Generate(cfg), g.Generate(cfg))
}

func TestTerraformGenerator_OutputIsHCL(t *testing.T) {
	doc := NewTerraformGenerator().Generate(config(entity.ProviderAWS, 2, 1, 2))

	file, diags := hclparse.NewParser().ParseHCL([]byte(doc), "main.tf")
	require.False(t, diags.HasErrors(), diags.Error())

	content, _, diags := file.Body.PartialContent(&hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "terraform"},
			{Type: "provider", LabelNames: []string{"name"}},
			{Type: "resource", LabelNames: []string{"type", "name"}},
			{Type: "output", LabelNames: []string{"name"}},
		},
	})
	require.False(t, diags.HasErrors(), diags.Error())

	assert.Len(t, content.Blocks.OfType("terraform"), 1)
	assert.Len(t, content.Blocks.OfType("provider"), 1)
	// vpc + subnet + 2 security groups + 2 servers + 1 database
	assert.Len(t, content.Blocks.OfType("resource"), 7)
	assert.Len(t, content.Blocks.OfType("output"), 2)
}
