package plan_test

import (
	"testing"

	"gymdesk/internal/domain/plan"
)

// TestDietPlan_Validate tests validation of DietPlan.
func TestDietPlan_Validate(t *testing.T) {
	tests := []struct {
		name    string
		d       plan.DietPlan
		wantErr error
	}{
		{name: "valid", d: plan.DietPlan{MemberID: 1, MealType: "Breakfast", Items: "oats, eggs"}},
		{name: "no member", d: plan.DietPlan{MealType: "Lunch", Items: "rice"}, wantErr: plan.ErrEmptyMemberID},
		{name: "unknown meal", d: plan.DietPlan{MemberID: 1, MealType: "Brunch", Items: "rice"}, wantErr: plan.ErrInvalidMealType},
		{name: "blank items", d: plan.DietPlan{MemberID: 1, MealType: "Dinner", Items: "  "}, wantErr: plan.ErrEmptyItems},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.d.Validate(); err != tt.wantErr {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestWorkoutPlan_Validate tests validation of WorkoutPlan.
func TestWorkoutPlan_Validate(t *testing.T) {
	t.Run("blank exercises dropped", func(t *testing.T) {
		w := plan.WorkoutPlan{MemberID: 1, Day: "Monday", Exercises: []string{"Squat", " ", "Bench"}}
		if err := w.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(w.Exercises) != 2 {
			t.Errorf("got %d exercises, want 2", len(w.Exercises))
		}
	})
	t.Run("only blanks", func(t *testing.T) {
		w := plan.WorkoutPlan{MemberID: 1, Day: "Monday", Exercises: []string{""}}
		if err := w.Validate(); err != plan.ErrEmptyExercises {
			t.Errorf("got %v, want %v", err, plan.ErrEmptyExercises)
		}
	})
	t.Run("bad day", func(t *testing.T) {
		w := plan.WorkoutPlan{MemberID: 1, Day: "Funday", Exercises: []string{"Row"}}
		if err := w.Validate(); err != plan.ErrInvalidDay {
			t.Errorf("got %v, want %v", err, plan.ErrInvalidDay)
		}
	})
	if plan.DayIndex("Sunday") != 6 || plan.DayIndex("Noday") != -1 {
		t.Error("DayIndex mismatch")
	}
}
