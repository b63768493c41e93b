package validate

import (
	"SmartBus/internal/lib/errs"
	"strings"
	"testing"
)

type account struct {
	Role  string `json:"role" validate:"required,oneof=admin parent driver"`
	Cin   string `json:"cin" validate:"required_if=Role parent,omitempty,cin"`
	Phone string `json:"phoneNumber" validate:"required_if=Role parent,omitempty,phone"`
}

func TestFormatPredicates(t *testing.T) {
	cases := []struct {
		name string
		fn   func(string) bool
		in   string
		want bool
	}{
		{"cin ok", Cin, "12345678", true},
		{"cin short", Cin, "1234567", false},
		{"cin letters", Cin, "1234567a", false},
		{"phone min", Phone, "12345678", true},
		{"phone max", Phone, "+21612345678", true},
		{"phone long", Phone, "+2161234567890", false},
		{"rfid ok", RFID, "RFID0001", true},
		{"rfid too short", RFID, "RF01", false},
		{"rfid symbols", RFID, "RFID-0001", false},
		{"rfid 16", RFID, "ABCDEFGH12345678", true},
	}
	for _, c := range cases {
		if got := c.fn(c.in); got != c.want {
			t.Fatalf("%s: expected %v for %q", c.name, c.want, c.in)
		}
	}
}

func TestConditionalRequiredness(t *testing.T) {
	if err := Struct(account{Role: "admin"}); err != nil {
		t.Fatalf("admin without cin must pass: %v", err)
	}

	err := Struct(account{Role: "parent"})
	if !errs.Is(err, errs.InvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	fields := errs.Fields(err)
	if len(fields) != 2 {
		t.Fatalf("expected cin and phone violations, got %v", fields)
	}
	if !strings.HasPrefix(fields[0], "cin") {
		t.Fatalf("fields should use json names, got %v", fields)
	}

	if err := Struct(account{Role: "admin", Cin: "123"}); err == nil {
		t.Fatalf("a present cin must still be well-formed")
	}
	if err := Struct(account{Role: "parent", Cin: "12345678", Phone: "12345678"}); err != nil {
		t.Fatalf("valid parent rejected: %v", err)
	}
}
