package task

import "errors"

// Task domain errors
var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTaskNotAssigned = errors.New("task is not assigned to you")
)
