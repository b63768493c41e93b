package entity

import (
	"testing"
	"time"
)

func TestPresenceLegacyStatus(t *testing.T) {
	p := NewPresence(PresenceInput{StudentId: " RFID0001 ", BusId: "B1", Status: "Descendu"})
	if p.Status != StatusAlighted || p.StudentId != "RFID0001" {
		t.Fatalf("unexpected presence %+v", p)
	}
	if p.Timestamp.IsZero() || p.Verb() != "got off" {
		t.Fatalf("timestamp or verb wrong: %+v", p)
	}

	at := time.Date(2024, 9, 1, 7, 30, 0, 0, time.UTC)
	p.Apply(PresenceInput{Status: "monté", Timestamp: &at})
	if p.Status != StatusBoarded || !p.Timestamp.Equal(at) {
		t.Fatalf("apply: %+v", p)
	}
}

func TestBusSecondDriverCanBeCleared(t *testing.T) {
	second := "22222222"
	bus := NewBus(BusInput{BusId: "B1", Name: "Bus1", Capacity: 40, DriverId1: "11111111", DriverId2: &second})
	if ids := bus.DriverIds(); len(ids) != 2 {
		t.Fatalf("expected two drivers, got %v", ids)
	}

	bus.Apply(BusInput{Name: "Renamed"})
	if bus.DriverId2 != second || bus.Name != "Renamed" {
		t.Fatalf("omitted fields must be kept: %+v", bus)
	}

	empty := ""
	bus.Apply(BusInput{DriverId2: &empty})
	if ids := bus.DriverIds(); len(ids) != 1 || ids[0] != "11111111" {
		t.Fatalf("expected only the first driver, got %v", ids)
	}
}

func TestNewAccountDefaults(t *testing.T) {
	a := NewAccount(AccountInput{Username: " p1 ", Email: " P1@X.COM "})
	if a.Role != RoleParent || a.Email != "p1@x.com" || a.Username != "p1" {
		t.Fatalf("unexpected account %+v", a)
	}
	if !IsId(a.ID) {
		t.Fatalf("id %q is not an object id", a.ID)
	}
}
