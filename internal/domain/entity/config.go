package entity

const (
	MainFileName      = "main.tf"
	FileTypeTerraform = "terraform"
)

// ConfigFile is a generated artifact belonging to a job.
type ConfigFile struct {
	JobID       string   `json:"job_id" bson:"job_id"`
	Name        string   `json:"name" bson:"name"`
	Content     string   `json:"content" bson:"content"`
	Type        string   `json:"type" bson:"type"`
	MissingTags []string `json:"missing_tags,omitempty" bson:"missing_tags,omitempty"`
}

func NewTerraformFile(jobID, content string, missingTags []string) *ConfigFile {
	return &ConfigFile{
		JobID:       jobID,
		Name:        MainFileName,
		Content:     content,
		Type:        FileTypeTerraform,
		MissingTags: missingTags,
	}
}
