package domain

import "testing"

func TestSlotIDFormatsCoordinates(t *testing.T) {
	cases := []struct {
		code     string
		row, col int
		want     string
	}{
		{"GA", 1, 1, "GA-R01-C01"},
		{"GA", 1, 5, "GA-R01-C05"},
		{"GB", 10, 12, "GB-R10-C12"},
		{"GC", 6, 8, "GC-R06-C08"},
	}
	for _, tc := range cases {
		if got := SlotID(tc.code, tc.row, tc.col); got != tc.want {
			t.Errorf("SlotID(%q, %d, %d) = %q, want %q", tc.code, tc.row, tc.col, got, tc.want)
		}
	}
}

func TestRoomCapacityIsRowsTimesCols(t *testing.T) {
	room := Room{ID: "godown-a", Code: "GA", Rows: 10, Cols: 10}
	if got := room.Capacity(); got != 100 {
		t.Fatalf("capacity = %d, want 100", got)
	}
}

func TestSlotOccupied(t *testing.T) {
	slot := Slot{Status: SlotEmpty}
	if slot.Occupied() {
		t.Fatal("empty slot reported occupied")
	}
	slot.Status = SlotOccupied
	if !slot.Occupied() {
		t.Fatal("occupied slot reported empty")
	}
}
