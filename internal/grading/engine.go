package grading

import (
	"errors"
	"sort"

	"github.com/kodeclass/kodex-api/internal/models"
)

// ErrOutOfRangeScore indicates a criterion score outside [0, max_points]
// reached a computation or persistence path. Scores are clamped at entry
// time; anything out of range here is a caller bug and must never be
// silently corrected into a wrong total.
var ErrOutOfRangeScore = errors.New("criterion points out of range")

// ErrUndefinedPercentage indicates a percentage was requested for an
// exercise whose criteria sum to zero points.
var ErrUndefinedPercentage = errors.New("percentage undefined for zero max points")

// TargetRubricTotal is the conventional rubric total authors aim for.
// Exceeding it is a warning, not an error.
const TargetRubricTotal = 30

// Entry pairs a criterion with the points awarded for it.
type Entry struct {
	Criterion models.Criterion
	Points    int
}

// ValidateEntries checks every entry against its criterion bounds.
func ValidateEntries(entries []Entry) error {
	for _, entry := range entries {
		if entry.Points < 0 || entry.Points > entry.Criterion.MaxPoints {
			return ErrOutOfRangeScore
		}
	}
	return nil
}

// ComputeTotal returns the sum of points across all entries. Every entry
// must already satisfy 0 <= points <= max_points; an out-of-range entry
// fails with ErrOutOfRangeScore rather than producing a wrong grade.
func ComputeTotal(entries []Entry) (int, error) {
	if err := ValidateEntries(entries); err != nil {
		return 0, err
	}

	total := 0
	for _, entry := range entries {
		total += entry.Points
	}
	return total, nil
}

// ClampPoints bounds a raw value to [0, max_points]. This is an entry-time
// helper for sliders and numeric inputs; by save time scores must already
// be in range.
func ClampPoints(criterion models.Criterion, raw int) int {
	if raw < 0 {
		return 0
	}
	if raw > criterion.MaxPoints {
		return criterion.MaxPoints
	}
	return raw
}

// MaxPossible returns the sum of max_points across the criteria. An empty
// set yields 0; callers must treat the percentage as undefined in that case.
func MaxPossible(criteria []models.Criterion) int {
	total := 0
	for _, criterion := range criteria {
		total += criterion.MaxPoints
	}
	return total
}

// Percentage returns score/max as a percentage. Defined only for max > 0.
func Percentage(score, max int) (float64, error) {
	if max <= 0 {
		return 0, ErrUndefinedPercentage
	}
	return float64(score) / float64(max) * 100, nil
}

// ExceedsTarget reports whether the criteria's total max points overshoot
// the conventional rubric total. Authors may deviate intentionally.
func ExceedsTarget(criteria []models.Criterion) bool {
	return MaxPossible(criteria) > TargetRubricTotal
}

// SortCriteria orders criteria by their authoring-time position, ascending.
// The sum is commutative, but rendering and entry matching rely on a stable
// order.
func SortCriteria(criteria []models.Criterion) {
	sort.SliceStable(criteria, func(i, j int) bool {
		return criteria[i].Position < criteria[j].Position
	})
}

// MatchEntries pairs each criterion with its recorded criterion grade,
// matching by criterion identity rather than slice position. Criteria
// without a recorded grade yield zero points. The result follows criterion
// position order.
func MatchEntries(criteria []models.Criterion, grades []models.CriterionGrade) []Entry {
	byCriterion := make(map[uint]int, len(grades))
	for _, grade := range grades {
		byCriterion[grade.CriterionID] = grade.Points
	}

	ordered := make([]models.Criterion, len(criteria))
	copy(ordered, criteria)
	SortCriteria(ordered)

	entries := make([]Entry, 0, len(ordered))
	for _, criterion := range ordered {
		entries = append(entries, Entry{Criterion: criterion, Points: byCriterion[criterion.ID]})
	}
	return entries
}
