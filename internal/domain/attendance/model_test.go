package attendance_test

import (
	"testing"

	"gymdesk/internal/domain/attendance"
)

// TestAttendance_Validate tests validation of Attendance.
func TestAttendance_Validate(t *testing.T) {
	tests := []struct {
		name    string
		a       attendance.Attendance
		wantErr error
	}{
		{name: "present", a: attendance.Attendance{MemberID: 1, Date: "2026-03-01", Status: attendance.StatusPresent}},
		{name: "absent", a: attendance.Attendance{MemberID: 1, Date: "2026-03-01", Status: attendance.StatusAbsent}},
		{name: "no member", a: attendance.Attendance{Date: "2026-03-01", Status: attendance.StatusPresent}, wantErr: attendance.ErrEmptyMemberID},
		{name: "bad date", a: attendance.Attendance{MemberID: 1, Date: "03/01/2026", Status: attendance.StatusPresent}, wantErr: attendance.ErrInvalidDate},
		{name: "bad status", a: attendance.Attendance{MemberID: 1, Date: "2026-03-01", Status: "late"}, wantErr: attendance.ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.a.Validate(); err != tt.wantErr {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
