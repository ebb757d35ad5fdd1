package grading

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kodeclass/kodex-api/internal/models"
)

func TestStateOf(t *testing.T) {
	require.Equal(t, StateNoSubmission, StateOf(nil))

	pending := &models.Submission{Status: models.SubmissionStatusPending}
	require.Equal(t, StatePending, StateOf(pending))

	graded := &models.Submission{Status: models.SubmissionStatusGraded}
	require.Equal(t, StateGraded, StateOf(graded))
}

func TestValidateSubmit(t *testing.T) {
	require.ErrorIs(t, ValidateSubmit(""), ErrEmptyMainCode)
	require.ErrorIs(t, ValidateSubmit("   \n\t"), ErrEmptyMainCode)
	require.NoError(t, ValidateSubmit("fun main(){}"))
}

func TestTransitions(t *testing.T) {
	require.False(t, StateNoSubmission.CanResubmit())
	require.True(t, StatePending.CanResubmit())
	require.True(t, StateGraded.CanResubmit(), "graded submissions reopen via resubmission")

	require.False(t, StateNoSubmission.CanGrade())
	require.True(t, StatePending.CanGrade())
	require.True(t, StateGraded.CanGrade(), "re-grading updates the grade in place")
}
