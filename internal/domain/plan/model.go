package plan

import (
	"errors"
	"slices"
	"strings"
)

// Meal types accepted for a diet plan row.
var MealTypes = []string{"Breakfast", "Lunch", "Dinner", "Snacks", "Pre-Workout", "Post-Workout"}

// Days accepted for a workout plan row.
var Days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Domain errors
var (
	ErrEmptyMemberID   = errors.New("plan must be associated with a member")
	ErrInvalidMealType = errors.New("meal_type must be one of Breakfast, Lunch, Dinner, Snacks, Pre-Workout, Post-Workout")
	ErrInvalidDay      = errors.New("day must be a weekday name")
	ErrEmptyItems      = errors.New("diet items cannot be empty")
	ErrEmptyExercises  = errors.New("workout must list at least one exercise")
)

// DietPlan is one meal of a member's diet. At most one row exists per (MemberID, MealType).
type DietPlan struct {
	ID       int64  `json:"id"`
	MemberID int64  `json:"member_id"`
	MealType string `json:"meal_type"`
	Items    string `json:"items"`
}

// Validate checks if the DietPlan has valid data.
// PRE: DietPlan struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: MealType is a known meal type
func (d *DietPlan) Validate() error {
	if d.MemberID <= 0 {
		return ErrEmptyMemberID
	}
	if !slices.Contains(MealTypes, d.MealType) {
		return ErrInvalidMealType
	}
	if strings.TrimSpace(d.Items) == "" {
		return ErrEmptyItems
	}
	return nil
}

// WorkoutPlan is one training day of a member's routine. At most one row exists per (MemberID, Day).
type WorkoutPlan struct {
	ID        int64    `json:"id"`
	MemberID  int64    `json:"member_id"`
	Day       string   `json:"day"`
	Exercises []string `json:"exercises"`
}

// Validate checks if the WorkoutPlan has valid data.
// PRE: WorkoutPlan struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Day is a weekday name, Exercises is non-empty after trimming blanks
func (w *WorkoutPlan) Validate() error {
	if w.MemberID <= 0 {
		return ErrEmptyMemberID
	}
	if !slices.Contains(Days, w.Day) {
		return ErrInvalidDay
	}
	w.Exercises = slices.DeleteFunc(w.Exercises, func(e string) bool {
		return strings.TrimSpace(e) == ""
	})
	if len(w.Exercises) == 0 {
		return ErrEmptyExercises
	}
	return nil
}

// DayIndex returns the position of day within the week starting Monday, or -1.
func DayIndex(day string) int {
	return slices.Index(Days, day)
}
