package plan

import (
	"context"
	"encoding/json"
	"fmt"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/plan"
)

// SQLiteDietStore implements DietStore using SQLite.
type SQLiteDietStore struct {
	db storage.SQLDB
}

// NewSQLiteDietStore creates a new DietStore.
func NewSQLiteDietStore(db storage.SQLDB) *SQLiteDietStore {
	return &SQLiteDietStore{db: db}
}

// Upsert writes the meal for (MemberID, MealType) in a single statement.
// PRE: entity has been validated
// POST: Exactly one row exists for the key, holding value.Items; value.ID is its id
func (s *SQLiteDietStore) Upsert(ctx context.Context, d *domain.DietPlan) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO diet_plan (member_id, meal_type, items) VALUES (?, ?, ?)
		ON CONFLICT(member_id, meal_type) DO UPDATE SET items = excluded.items
		RETURNING id`,
		d.MemberID, d.MealType, d.Items,
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("upsert diet plan: %w", err)
	}
	return nil
}

// ListByMember returns a member's diet in meal order.
func (s *SQLiteDietStore) ListByMember(ctx context.Context, memberID int64) ([]domain.DietPlan, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, member_id, meal_type, items FROM diet_plan WHERE member_id = ?
		ORDER BY CASE meal_type
			WHEN 'Breakfast' THEN 0 WHEN 'Pre-Workout' THEN 1 WHEN 'Lunch' THEN 2
			WHEN 'Post-Workout' THEN 3 WHEN 'Snacks' THEN 4 WHEN 'Dinner' THEN 5 ELSE 6 END, id`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.DietPlan
	for rows.Next() {
		var d domain.DietPlan
		if err := rows.Scan(&d.ID, &d.MemberID, &d.MealType, &d.Items); err != nil {
			return nil, err
		}
		results = append(results, d)
	}
	return results, rows.Err()
}

// Delete removes one diet row.
// PRE: id > 0
// POST: Row removed, or storage.ErrNotFound
func (s *SQLiteDietStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM diet_plan WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete diet plan %d: %w", id, err)
	}
	return storage.RequireAffected(res, "diet plan", id)
}

// SQLiteWorkoutStore implements WorkoutStore using SQLite.
// Exercises are stored as a JSON array of strings.
type SQLiteWorkoutStore struct {
	db storage.SQLDB
}

// NewSQLiteWorkoutStore creates a new WorkoutStore.
func NewSQLiteWorkoutStore(db storage.SQLDB) *SQLiteWorkoutStore {
	return &SQLiteWorkoutStore{db: db}
}

// Upsert writes the routine for (MemberID, Day) in a single statement.
// PRE: entity has been validated
// POST: Exactly one row exists for the key, holding value.Exercises; value.ID is its id
func (s *SQLiteWorkoutStore) Upsert(ctx context.Context, w *domain.WorkoutPlan) error {
	exercises, err := json.Marshal(w.Exercises)
	if err != nil {
		return err
	}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO workout_plan (member_id, day, exercises) VALUES (?, ?, ?)
		ON CONFLICT(member_id, day) DO UPDATE SET exercises = excluded.exercises
		RETURNING id`,
		w.MemberID, w.Day, string(exercises),
	).Scan(&w.ID)
	if err != nil {
		return fmt.Errorf("upsert workout plan: %w", err)
	}
	return nil
}

// ListByMember returns a member's routine Monday first.
func (s *SQLiteWorkoutStore) ListByMember(ctx context.Context, memberID int64) ([]domain.WorkoutPlan, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, member_id, day, exercises FROM workout_plan WHERE member_id = ?
		ORDER BY CASE day
			WHEN 'Monday' THEN 0 WHEN 'Tuesday' THEN 1 WHEN 'Wednesday' THEN 2 WHEN 'Thursday' THEN 3
			WHEN 'Friday' THEN 4 WHEN 'Saturday' THEN 5 WHEN 'Sunday' THEN 6 ELSE 7 END, id`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.WorkoutPlan
	for rows.Next() {
		var w domain.WorkoutPlan
		var raw string
		if err := rows.Scan(&w.ID, &w.MemberID, &w.Day, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &w.Exercises); err != nil {
			// Legacy rows may hold free text rather than a JSON list.
			w.Exercises = []string{raw}
		}
		results = append(results, w)
	}
	return results, rows.Err()
}

// Delete removes one workout row.
// PRE: id > 0
// POST: Row removed, or storage.ErrNotFound
func (s *SQLiteWorkoutStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM workout_plan WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete workout plan %d: %w", id, err)
	}
	return storage.RequireAffected(res, "workout plan", id)
}
