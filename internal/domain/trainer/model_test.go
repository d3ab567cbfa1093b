package trainer_test

import (
	"strings"
	"testing"

	"gymdesk/internal/domain/trainer"
)

// TestTrainer_Validate tests validation of Trainer.
func TestTrainer_Validate(t *testing.T) {
	tests := []struct {
		name    string
		tr      trainer.Trainer
		wantErr error
	}{
		{name: "valid", tr: trainer.Trainer{Name: "Ravi", Specialty: "Strength"}},
		{name: "blank name", tr: trainer.Trainer{Name: " "}, wantErr: trainer.ErrEmptyName},
		{name: "long name", tr: trainer.Trainer{Name: strings.Repeat("a", 101)}, wantErr: trainer.ErrNameTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.tr.Validate(); err != tt.wantErr {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
