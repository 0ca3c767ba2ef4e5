package entity

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCompleted JobStatus = "completed"
)

// Job is one description-to-terraform generation.
type Job struct {
	ID             string                `json:"id" bson:"id"`
	Description    string                `json:"description" bson:"description"`
	Status         JobStatus             `json:"status" bson:"status"`
	Infrastructure *InfrastructureConfig `json:"infrastructure,omitempty" bson:"infrastructure,omitempty"`
	Resources      []string              `json:"resources,omitempty" bson:"resources,omitempty"`
	Error          string                `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt      time.Time             `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at" bson:"updated_at"`
}

func NewJob(description string) *Job {
	now := time.Now()
	return &Job{
		ID:          uuid.New().String(),
		Description: description,
		Status:      JobStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (j *Job) UpdateStatus(status JobStatus) {
	j.Status = status
	j.UpdatedAt = time.Now()
}

func (j *Job) Complete(cfg InfrastructureConfig, resources []string) {
	j.Infrastructure = &cfg
	j.Resources = resources
	j.Error = ""
	j.UpdateStatus(JobStatusCompleted)
}

func (j *Job) Fail(err error) {
	j.Error = err.Error()
	j.UpdateStatus(JobStatusFailed)
}
