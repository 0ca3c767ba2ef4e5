package entity

// ComplianceRule is a textual check applied to every generated document.
type ComplianceRule struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	RequiredTags []string `json:"required_tags"`
}

var SecurityTagsRule = ComplianceRule{
	Name:         "security_tags_required",
	Description:  "All resources must carry security tags",
	RequiredTags: []string{"Environment", "SecurityLevel"},
}
