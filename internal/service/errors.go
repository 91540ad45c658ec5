package service

import (
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/triplan/internal/generator"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrGenerationUnavailable matches any non-2xx or transport failure from the generator.
	ErrGenerationUnavailable = generator.ErrUnavailable
)

// FieldProblem names one invalid input field.
type FieldProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every problem found in a request, not just the first.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.Field + ": " + p.Message
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

type problems []FieldProblem

func (p *problems) add(field, format string, args ...any) {
	*p = append(*p, FieldProblem{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return &ValidationError{Problems: p}
}

// GenerationFormatError means the generator answered but its text was not
// a usable plan. Err is the JSON decode error or a schema violation.
type GenerationFormatError struct {
	Err error
}

func (e *GenerationFormatError) Error() string {
	return fmt.Sprintf("generated plan is malformed: %v", e.Err)
}

func (e *GenerationFormatError) Unwrap() error { return e.Err }

// PersistenceError wraps a store failure with the operation that hit it.
type PersistenceError struct {
	Op       string
	Resource string
	ID       primitive.ObjectID
	Err      error
}

func (e *PersistenceError) Error() string {
	if e == nil {
		return ""
	}
	if !e.ID.IsZero() {
		return fmt.Sprintf("%s %s %s: %v", e.Op, e.Resource, e.ID.Hex(), e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistErr(op, resource string, id primitive.ObjectID, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Resource: resource, ID: id, Err: err}
}

func requireUser(userID primitive.ObjectID) error {
	if userID.IsZero() {
		return ErrAuthenticationRequired
	}
	return nil
}
