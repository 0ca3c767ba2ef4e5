package entity

type GenerateRequest struct {
	Description string `json:"description"`
}

// GenerationResult is what the pipeline hands back to its caller.
type GenerationResult struct {
	JobID          string               `json:"job_id"`
	Infrastructure InfrastructureConfig `json:"infrastructure"`
	TerraformCode  string               `json:"terraform_code"`
	Resources      []string             `json:"resources,omitempty"`
	MissingTags    []string             `json:"missing_tags,omitempty"`
}

type GenerateResponse struct {
	Success        bool                 `json:"success"`
	JobID          string               `json:"job_id,omitempty"`
	Infrastructure InfrastructureConfig `json:"infrastructure"`
	TerraformCode  string               `json:"terraform_code"`
	Resources      []string             `json:"resources,omitempty"`
	Message        string               `json:"message"`
}

func NewGenerateResponse(res *GenerationResult) GenerateResponse {
	return GenerateResponse{
		Success:        true,
		JobID:          res.JobID,
		Infrastructure: res.Infrastructure,
		TerraformCode:  res.TerraformCode,
		Resources:      res.Resources,
		Message:        "Infrastructure generated successfully",
	}
}
