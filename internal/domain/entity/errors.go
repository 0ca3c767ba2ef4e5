package entity

import "errors"

var (
	ErrEmptyDescription = errors.New("description is missing")
	ErrJobNotFound      = errors.New("job not found")
	ErrTooManyResources = errors.New("too many resources requested")
)
