package machine_test

import (
	"testing"
	"time"

	"gymdesk/internal/domain/machine"
)

// TestMachine_Validate tests validation of Machine.
func TestMachine_Validate(t *testing.T) {
	tests := []struct {
		name    string
		m       machine.Machine
		wantErr error
	}{
		{name: "valid", m: machine.Machine{Name: "Treadmill", Status: machine.StatusBroken, LastMaintenance: "2026-01-01", NextMaintenance: "2026-04-01"}},
		{name: "defaults status", m: machine.Machine{Name: "Rower"}},
		{name: "blank name", m: machine.Machine{Name: ""}, wantErr: machine.ErrEmptyName},
		{name: "bad status", m: machine.Machine{Name: "Bike", Status: "Lost"}, wantErr: machine.ErrInvalidStatus},
		{name: "bad date", m: machine.Machine{Name: "Bike", LastMaintenance: "yesterday"}, wantErr: machine.ErrInvalidDate},
		{name: "reversed", m: machine.Machine{Name: "Bike", LastMaintenance: "2026-05-01", NextMaintenance: "2026-04-01"}, wantErr: machine.ErrNextBeforeLast},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.m.Validate(); err != tt.wantErr {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	m := machine.Machine{Name: "Rower"}
	_ = m.Validate()
	if m.Status != machine.StatusOperational {
		t.Errorf("status = %q, want %q", m.Status, machine.StatusOperational)
	}
}

// TestMachine_MaintenanceDue tests due-date detection.
func TestMachine_MaintenanceDue(t *testing.T) {
	today := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	if !(&machine.Machine{NextMaintenance: "2026-04-01"}).MaintenanceDue(today) {
		t.Error("due today should be due")
	}
	if (&machine.Machine{NextMaintenance: "2026-04-02"}).MaintenanceDue(today) {
		t.Error("tomorrow should not be due")
	}
	if (&machine.Machine{}).MaintenanceDue(today) {
		t.Error("unscheduled machine should not be due")
	}
}
