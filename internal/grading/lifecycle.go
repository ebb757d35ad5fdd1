package grading

import (
	"errors"
	"strings"

	"github.com/kodeclass/kodex-api/internal/models"
)

// ErrEmptyMainCode indicates a submit attempt with a blank main artifact.
var ErrEmptyMainCode = errors.New("main code must not be blank")

// State describes where a (exercise, student) pair sits in the submission
// lifecycle: NoSubmission -> Pending -> Graded, with Graded -> Pending
// re-entered only through resubmission.
type State string

const (
	StateNoSubmission State = "no_submission"
	StatePending      State = "pending"
	StateGraded       State = "graded"
)

// StateOf derives the lifecycle state from the submission found for a pair,
// or from its absence.
func StateOf(submission *models.Submission) State {
	if submission == nil {
		return StateNoSubmission
	}
	if submission.IsGraded() {
		return StateGraded
	}
	return StatePending
}

// CanResubmit reports whether a new code upload is legal. Resubmitting a
// graded submission is allowed and moves it back to pending.
func (s State) CanResubmit() bool {
	return s == StatePending || s == StateGraded
}

// CanGrade reports whether grading is legal. Grading an already graded
// submission updates the existing grade in place.
func (s State) CanGrade() bool {
	return s == StatePending || s == StateGraded
}

// ValidateSubmit checks the submit/resubmit precondition. The test artifact
// may be empty; the main artifact may not.
func ValidateSubmit(mainCode string) error {
	if strings.TrimSpace(mainCode) == "" {
		return ErrEmptyMainCode
	}
	return nil
}
