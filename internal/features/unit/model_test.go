package unit

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to UnitStatus
		want     bool
	}{
		{StatusAvailable, StatusReserved, true},
		{StatusAvailable, StatusSold, true},
		{StatusReserved, StatusAvailable, true},
		{StatusReserved, StatusSold, true},
		{StatusSold, StatusAvailable, false},
		{StatusSold, StatusReserved, false},
		{StatusAvailable, StatusAvailable, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestValidStatus(t *testing.T) {
	if !ValidStatus(StatusReserved) {
		t.Error("reserved should be a valid status")
	}
	if ValidStatus(UnitStatus("demolished")) {
		t.Error("unknown status should be invalid")
	}
}
