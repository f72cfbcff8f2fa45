package core

import (
	"errors"
	"testing"

	"godowncore/pkg/domain"
)

func twoRooms() []domain.Room {
	return []domain.Room{
		{ID: "godown-a", Name: "Godown A", Code: "GA", Rows: 10, Cols: 10},
		{ID: "godown-b", Name: "Godown B", Code: "GB", Rows: 8, Cols: 12},
	}
}

func TestRegistryGetAndList(t *testing.T) {
	registry, err := NewRegistry(twoRooms())
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	room, err := registry.Get("godown-b")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if room.Code != "GB" || room.Capacity() != 96 {
		t.Fatalf("unexpected room: %+v", room)
	}

	list := registry.List()
	if len(list) != 2 || list[0].ID != "godown-a" || list[1].ID != "godown-b" {
		t.Fatalf("list out of order: %+v", list)
	}
}

func TestRegistryUnknownRoomIsConfigError(t *testing.T) {
	registry, err := NewRegistry(twoRooms())
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	_, err = registry.Get("godown-z")
	var unknown domain.UnknownRoomError
	if !errors.As(err, &unknown) || unknown.RoomID != "godown-z" {
		t.Fatalf("expected UnknownRoomError, got %v", err)
	}
}

func TestRegistryRejectsBadConfiguration(t *testing.T) {
	cases := []struct {
		name  string
		rooms []domain.Room
	}{
		{"empty", nil},
		{"zero rows", []domain.Room{{ID: "a", Code: "A", Rows: 0, Cols: 5}}},
		{"negative cols", []domain.Room{{ID: "a", Code: "A", Rows: 5, Cols: -1}}},
		{"missing id", []domain.Room{{Code: "A", Rows: 5, Cols: 5}}},
		{"missing code", []domain.Room{{ID: "a", Rows: 5, Cols: 5}}},
		{"duplicate id", []domain.Room{
			{ID: "a", Code: "A", Rows: 5, Cols: 5},
			{ID: "a", Code: "B", Rows: 5, Cols: 5},
		}},
		{"duplicate code", []domain.Room{
			{ID: "a", Code: "A", Rows: 5, Cols: 5},
			{ID: "b", Code: "A", Rows: 5, Cols: 5},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewRegistry(tc.rooms); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}
