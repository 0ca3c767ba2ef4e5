package extractor

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"infragen/internal/domain/entity"
	"infragen/internal/domain/repository"
)

var digitRun = regexp.MustCompile(`[0-9]+`)

type providerRule struct {
	provider entity.Provider
	markers  []string
}

// Checked in order, the first provider with a matching marker wins.
var providerRules = []providerRule{
	{provider: entity.ProviderAzure, markers: []string{"azure"}},
	{provider: entity.ProviderGCP, markers: []string{"gcp", "google"}},
	{provider: entity.ProviderOpenStack, markers: []string{"openstack"}},
}

var (
	serverKeywords       = []string{"serveur", "server", "instance", "vm", "machine virtuelle", "virtual machine", "ec2"}
	databaseKeywords     = []string{"base de données", "database", "db", "mysql", "postgresql", "rds"}
	loadBalancerKeywords = []string{"load balancer", "équilibreur", "balanceur"}
	securityKeywords     = []string{"sécurisé", "secure", "sécurité", "security"}
)

// rule applies its effect when one of its keywords is found in the lower-cased text.
type rule struct {
	keywords []string
	apply    func(cfg *entity.InfrastructureConfig, original string)
}

// KeywordExtractor is a best-effort keyword classifier. It never fails.
type KeywordExtractor struct {
	rules []rule
}

func NewKeywordExtractor() repository.InfraExtractor {
	return &KeywordExtractor{
		rules: []rule{
			{keywords: serverKeywords, apply: func(cfg *entity.InfrastructureConfig, original string) {
				cfg.Servers = firstNumber(original, 1)
			}},
			{keywords: databaseKeywords, apply: func(cfg *entity.InfrastructureConfig, _ string) {
				cfg.Databases = 1
			}},
			{keywords: loadBalancerKeywords, apply: func(cfg *entity.InfrastructureConfig, _ string) {
				cfg.LoadBalancers = 1
			}},
			{keywords: securityKeywords, apply: func(cfg *entity.InfrastructureConfig, _ string) {
				cfg.SecurityGroups = 2
			}},
		},
	}
}

func (e *KeywordExtractor) Extract(description string) entity.InfrastructureConfig {
	lower := strings.ToLower(description)

	cfg := entity.DefaultInfrastructureConfig()
	cfg.Provider = detectProvider(lower)

	for _, r := range e.rules {
		if containsAny(lower, r.keywords) {
			r.apply(&cfg, description)
		}
	}

	cfg.Networks = 1
	return cfg
}

func detectProvider(lower string) entity.Provider {
	for _, pr := range providerRules {
		if containsAny(lower, pr.markers) {
			return pr.provider
		}
	}
	return entity.ProviderAWS
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// firstNumber returns the first run of digits in text, or def when there is none.
// Runs too long for an int saturate instead of failing.
func firstNumber(text string, def int) int {
	run := digitRun.FindString(text)
	if run == "" {
		return def
	}
	n, err := strconv.Atoi(run)
	if err != nil {
		return math.MaxInt
	}
	return n
}
