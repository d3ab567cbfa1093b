package orchestrators

import (
	"context"
	"errors"
	"log/slog"
)

// ResetConfirmation is the literal the caller must send to wipe all data.
const ResetConfirmation = "RESET"

// ErrResetNotConfirmed is returned when the confirmation literal is missing or wrong.
var ErrResetNotConfirmed = errors.New(`confirm must be "RESET"`)

// ResetDataDeps holds dependencies for ResetData.
type ResetDataDeps struct {
	ResetAll func(ctx context.Context) error
}

// ExecuteResetData deletes every row from every data table.
// PRE: confirm == ResetConfirmation
// POST: All data tables empty; nothing changed on error
func ExecuteResetData(ctx context.Context, confirm string, deps ResetDataDeps) error {
	if confirm != ResetConfirmation {
		return ErrResetNotConfirmed
	}
	if err := deps.ResetAll(ctx); err != nil {
		return err
	}
	slog.Warn("data_reset", "event", "all_tables_cleared")
	return nil
}
