package entity

import "strings"

type Provider string

const (
	ProviderAWS       Provider = "aws"
	ProviderAzure     Provider = "azure"
	ProviderGCP       Provider = "gcp"
	ProviderOpenStack Provider = "openstack"
)

func (p Provider) String() string {
	return string(p)
}

// Upper is the provider name as it appears in document headers.
func (p Provider) Upper() string {
	return strings.ToUpper(string(p))
}

// InfrastructureConfig is the resource topology extracted from a description.
type InfrastructureConfig struct {
	Provider       Provider `json:"provider" bson:"provider"`
	Servers        int      `json:"servers" bson:"servers"`
	Databases      int      `json:"databases" bson:"databases"`
	Networks       int      `json:"networks" bson:"networks"`
	LoadBalancers  int      `json:"load_balancers" bson:"load_balancers"`
	SecurityGroups int      `json:"security_groups" bson:"security_groups"`
}

// DefaultInfrastructureConfig is what a description without any known keyword yields.
func DefaultInfrastructureConfig() InfrastructureConfig {
	return InfrastructureConfig{
		Provider:       ProviderAWS,
		Servers:        0,
		Databases:      0,
		Networks:       1,
		LoadBalancers:  0,
		SecurityGroups: 1,
	}
}
