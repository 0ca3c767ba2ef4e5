package generator

import (
	"fmt"
	"strings"

	"infragen/internal/domain/entity"
	"infragen/internal/domain/repository"
)

// Templates take the provider name as %[1]s and the 1-based block index as %[2]d.
const (
	headerTemplate = `# Auto-generated infrastructure
# Provider: %[2]s

terraform {
  required_version = ">= 1.0"
  
  required_providers {
    %[1]s = {
      source  = "hashicorp/%[1]s"
      version = "~> 5.0"
    }
  }
}

provider "%[1]s" {
  region = "us-east-1"
  # Configure your credentials here
}

`

	networkTemplate = `# VPC network
resource "%[1]s_vpc" "main" {
  cidr_block           = "10.0.0.0/16"
  enable_dns_hostnames = true
  enable_dns_support   = true
  
  tags = {
    Name        = "main-vpc"
    Environment = "production"
    SecurityLevel = "high"
  }
}

# Public subnet
resource "%[1]s_subnet" "public" {
  vpc_id                  = %[1]s_vpc.main.id
  cidr_block              = "10.0.1.0/24"
  availability_zone       = "us-east-1a"
  map_public_ip_on_launch = true
  
  tags = {
    Name        = "public-subnet"
    Environment = "production"
    SecurityLevel = "high"
  }
}

`

	securityGroupTemplate = `# Security group %[2]d
resource "%[1]s_security_group" "main_%[2]d" {
  name        = "main-sg-%[2]d"
  description = "Main security group %[2]d"
  vpc_id      = %[1]s_vpc.main.id
  
  ingress {
    description = "HTTP"
    from_port   = 80
    to_port     = 80
    protocol    = "tcp"
    cidr_blocks = ["0.0.0.0/0"]
  }
  
  ingress {
    description = "HTTPS"
    from_port   = 443
    to_port     = 443
    protocol    = "tcp"
    cidr_blocks = ["0.0.0.0/0"]
  }
  
  egress {
    from_port   = 0
    to_port     = 0
    protocol    = "-1"
    cidr_blocks = ["0.0.0.0/0"]
  }
  
  tags = {
    Name        = "main-sg-%[2]d"
    Environment = "production"
    SecurityLevel = "high"
  }
}

`

	// Servers attach to the first security group only.
	serverTemplate = `# Server %[2]d
resource "%[1]s_instance" "server_%[2]d" {
  ami           = "ami-0c55b159cbfafe1f0"  # Amazon Linux 2
  instance_type = "t2.micro"
  subnet_id     = %[1]s_subnet.public.id
  
  vpc_security_group_ids = [%[1]s_security_group.main_1.id]
  
  tags = {
    Name        = "server-%[2]d"
    Environment = "production"
    SecurityLevel = "high"
  }
}

`

	databaseTemplate = `# Database %[2]d
resource "%[1]s_db_instance" "database_%[2]d" {
  identifier     = "db-%[2]d"
  engine         = "mysql"
  engine_version = "8.0"
  instance_class = "db.t2.micro"
  allocated_storage = 20
  storage_type   = "gp2"
  
  db_name  = "mydb"
  username = "admin"
  password = "` + DefaultDBPassword + `"  # Change this in production
  
  vpc_security_group_ids = [%[1]s_security_group.main_1.id]
  
  backup_retention_period = 7
  backup_window          = "03:00-04:00"
  maintenance_window     = "mon:04:00-mon:05:00"
  
  tags = {
    Name        = "database-%[2]d"
    Environment = "production"
    SecurityLevel = "high"
  }
}

`

	outputsTemplate = `# Outputs
output "vpc_id" {
  value = %[1]s_vpc.main.id
}

output "public_subnet_id" {
  value = %[1]s_subnet.public.id
}
`
)

// DefaultDBPassword is a known insecure placeholder. It has to be replaced before any real apply.
const DefaultDBPassword = "ChangeMe123!"

// TerraformGenerator expands fixed resource templates for a topology.
type TerraformGenerator struct{}

func NewTerraformGenerator() repository.CodeGenerator {
	return &TerraformGenerator{}
}

func (g *TerraformGenerator) Generate(cfg entity.InfrastructureConfig) string {
	p := cfg.Provider
	if p == "" {
		p = entity.ProviderAWS
	}
	provider := p.String()

	var b strings.Builder
	fmt.Fprintf(&b, headerTemplate, provider, p.Upper())

	// One VPC and one subnet whatever the network count.
	if cfg.Networks > 0 {
		fmt.Fprintf(&b, networkTemplate, provider)
	}

	writeBlocks(&b, securityGroupTemplate, provider, cfg.SecurityGroups)
	writeBlocks(&b, serverTemplate, provider, cfg.Servers)
	writeBlocks(&b, databaseTemplate, provider, cfg.Databases)

	fmt.Fprintf(&b, outputsTemplate, provider)
	return b.String()
}

func writeBlocks(b *strings.Builder, tmpl, provider string, count int) {
	for i := 1; i <= count; i++ {
		fmt.Fprintf(b, tmpl, provider, i)
	}
}
