package services

// Typed errors returned by services and mapped to HTTP codes by the
// handlers' shared error translator.

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

type ForbiddenError struct{ Message string }

func (e *ForbiddenError) Error() string { return e.Message }

// DependencyError marks a collaborator (roster, catalog, cache) failure.
// Read paths degrade around it; write paths fail closed.
type DependencyError struct{ Message string }

func (e *DependencyError) Error() string { return e.Message }
