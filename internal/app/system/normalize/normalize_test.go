package normalize_test

import (
	"testing"

	"github.com/dalemusser/ukmhub/internal/app/system/normalize"
)

func TestEmail(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  Budi@Campus.AC.ID ", "budi@campus.ac.id"},
		{"plain@example.com", "plain@example.com"},
		{"", ""},
	}
	for _, c := range cases {
		if got := normalize.Email(c.in); got != c.want {
			t.Errorf("Email(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestEmailValid(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"budi@campus.ac.id", true},
		{"a@b.co", true},
		{"missing-at.example.com", false},
		{"@nodomain.com", false},
		{"trailing@", false},
		{"no@dots", false},
		{"spaces in@example.com", false},
		{"", false},
	}
	for _, c := range cases {
		if got := normalize.EmailValid(c.in); got != c.want {
			t.Errorf("EmailValid(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  Budi   Santoso ", "Budi Santoso"},
		{"Single", "Single"},
		{"", ""},
	}
	for _, c := range cases {
		if got := normalize.Name(c.in); got != c.want {
			t.Errorf("Name(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestStatus_DefaultsToActive(t *testing.T) {
	if got := normalize.Status(""); got != "active" {
		t.Errorf("Status(\"\") = %q, want %q", got, "active")
	}
	if got := normalize.Status(" Disabled "); got != "disabled" {
		t.Errorf("Status = %q, want %q", got, "disabled")
	}
}

func TestClubStatus_DefaultsToActive(t *testing.T) {
	if got := normalize.ClubStatus(""); got != "active" {
		t.Errorf("ClubStatus(\"\") = %q, want %q", got, "active")
	}
}
