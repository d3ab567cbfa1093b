package web

import (
	"errors"
	"net/http"

	"gymdesk/internal/adapters/storage"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/domain/plan"
)

func planDeps() orchestrators.SavePlanDeps {
	return orchestrators.SavePlanDeps{
		Members:  stores.MemberStore,
		Diet:     stores.DietStore,
		Workouts: stores.WorkoutStore,
	}
}

// planSaveError separates validation failures from an unknown member and store errors.
func planSaveError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		storeError(w, err)
		return
	}
	for _, v := range []error{plan.ErrEmptyMemberID, plan.ErrInvalidMealType, plan.ErrInvalidDay, plan.ErrEmptyItems, plan.ErrEmptyExercises} {
		if errors.Is(err, v) {
			badRequest(w, err)
			return
		}
	}
	internalError(w, err)
}

// handleWorkouts handles GET ?member_id, POST (upsert by member and day) and DELETE ?id for /api/workouts
func handleWorkouts(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		memberID, err := queryID(r, "member_id")
		if err != nil {
			badRequest(w, err)
			return
		}
		list, err := stores.WorkoutStore.ListByMember(ctx, memberID)
		if err != nil {
			internalError(w, err)
			return
		}
		writeList(w, list)

	case http.MethodPost:
		var input struct {
			MemberID  int64    `json:"member_id"`
			Day       string   `json:"day"`
			Exercises []string `json:"exercises"`
		}
		if err := strictDecode(w, r, &input); err != nil {
			badRequest(w, err)
			return
		}
		saved, err := orchestrators.ExecuteSaveWorkout(ctx, plan.WorkoutPlan{
			MemberID:  input.MemberID,
			Day:       input.Day,
			Exercises: input.Exercises,
		}, planDeps())
		if err != nil {
			planSaveError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"id": saved.ID})

	case http.MethodDelete:
		id, err := queryID(r, "id")
		if err != nil {
			badRequest(w, err)
			return
		}
		if err := stores.WorkoutStore.Delete(ctx, id); err != nil {
			storeError(w, err)
			return
		}
		writeSuccess(w)

	default:
		methodNotAllowed(w)
	}
}

// handleDiet handles GET ?member_id, POST (upsert by member and meal) and DELETE ?id for /api/diet
func handleDiet(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		memberID, err := queryID(r, "member_id")
		if err != nil {
			badRequest(w, err)
			return
		}
		list, err := stores.DietStore.ListByMember(ctx, memberID)
		if err != nil {
			internalError(w, err)
			return
		}
		writeList(w, list)

	case http.MethodPost:
		var input struct {
			MemberID int64  `json:"member_id"`
			MealType string `json:"meal_type"`
			Items    string `json:"items"`
		}
		if err := strictDecode(w, r, &input); err != nil {
			badRequest(w, err)
			return
		}
		saved, err := orchestrators.ExecuteSaveDiet(ctx, plan.DietPlan{
			MemberID: input.MemberID,
			MealType: input.MealType,
			Items:    input.Items,
		}, planDeps())
		if err != nil {
			planSaveError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"id": saved.ID})

	case http.MethodDelete:
		id, err := queryID(r, "id")
		if err != nil {
			badRequest(w, err)
			return
		}
		if err := stores.DietStore.Delete(ctx, id); err != nil {
			storeError(w, err)
			return
		}
		writeSuccess(w)

	default:
		methodNotAllowed(w)
	}
}
