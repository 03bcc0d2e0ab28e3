package model

import (
	"time"

	"github.com/google/uuid"
)

type FieldKind string

const (
	FieldKindString FieldKind = "string"
	FieldKindDate   FieldKind = "date"
	FieldKindNumber FieldKind = "number"
)

type FieldSpec struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Section  string    `json:"section"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	ReadOnly bool      `json:"readOnly"`
	Unit     string    `json:"unit,omitempty"`
}

type SubmissionState string

const (
	SubmissionStateIdle       SubmissionState = "IDLE"
	SubmissionStateValidating SubmissionState = "VALIDATING"
	SubmissionStateSubmitting SubmissionState = "SUBMITTING"
)

type SubmissionOutcome string

const (
	SubmissionOutcomeInvalid   SubmissionOutcome = "INVALID"
	SubmissionOutcomeSucceeded SubmissionOutcome = "SUCCEEDED"
	SubmissionOutcomeFailed    SubmissionOutcome = "FAILED"
)

type SubmissionResult struct {
	Outcome     SubmissionOutcome `json:"outcome"`
	Message     string            `json:"message,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
	CompletedAt time.Time         `json:"completedAt"`
}

type FormSnapshot struct {
	ID         uuid.UUID         `json:"id"`
	Record     TripTicket        `json:"record"`
	Errors     map[string]string `json:"errors"`
	State      SubmissionState   `json:"state"`
	LastResult *SubmissionResult `json:"lastResult,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}
