// Package lifecycle owns the complaint status state machine: legal
// transitions, role-gated operations, audit-trail entries and the
// commit-then-notify side effects.
package lifecycle

import (
	"errors"
	"fmt"

	"campusdesk/backend/internal/models"
)

// ErrValidation is the base class for required-input failures. Handlers map
// anything wrapping it to a 400 before any write has happened.
var ErrValidation = errors.New("validation failed")

var (
	ErrDescriptionRequired = fmt.Errorf("%w: a description is required", ErrValidation)
	ErrInvalidCategory     = fmt.Errorf("%w: unknown complaint category", ErrValidation)
	ErrDepartmentRequired  = fmt.Errorf("%w: a department must be assigned when verifying", ErrValidation)
	ErrReasonRequired      = fmt.Errorf("%w: a rejection reason is required", ErrValidation)
	ErrResolutionRequired  = fmt.Errorf("%w: resolution details are required", ErrValidation)
	ErrCommentRequired     = fmt.Errorf("%w: comment content is required", ErrValidation)
	ErrUnknownStatus       = fmt.Errorf("%w: unknown target status", ErrValidation)
)

// ErrIllegalTransition is returned when the requested edge does not exist in
// the lifecycle graph, regardless of the actor's role.
var ErrIllegalTransition = errors.New("illegal status transition")

// transitions is the directed lifecycle graph. Legality is checked here
// centrally; dashboards only ever see edges that already passed this table.
var transitions = map[models.Status][]models.Status{
	models.StatusSubmitted:  {models.StatusVerified, models.StatusRejected},
	models.StatusVerified:   {models.StatusInProgress, models.StatusBacklog},
	models.StatusInProgress: {models.StatusResolved, models.StatusBacklog, models.StatusVerified},
	models.StatusBacklog:    {models.StatusInProgress, models.StatusVerified},
	models.StatusResolved:   {models.StatusDisputed, models.StatusInProgress, models.StatusClosed},
	models.StatusDisputed:   {models.StatusInProgress},
	models.StatusClosed:     {},
	models.StatusRejected:   {},
}

// CanTransition reports whether from→to is an edge of the lifecycle graph.
func CanTransition(from, to models.Status) bool {
	for _, target := range transitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// AllowedTargets returns the legal next states for a status. The slice is a
// copy; callers may not mutate the table.
func AllowedTargets(from models.Status) []models.Status {
	targets := transitions[from]
	out := make([]models.Status, len(targets))
	copy(out, targets)
	return out
}

// KnownStatus reports whether s names a lifecycle state at all.
func KnownStatus(s models.Status) bool {
	_, ok := transitions[s]
	return ok
}
