package model

import "testing"

func TestParseRole(t *testing.T) {
	valid := map[string]Role{
		"admin":      RoleAdmin,
		"instructor": RoleInstructor,
		"student":    RoleStudent,
		" Student ":  RoleStudent,
		"ADMIN":      RoleAdmin,
	}
	for input, expect := range valid {
		role, err := ParseRole(input)
		if err != nil {
			t.Fatalf("expected role %q to be valid", input)
		}
		if role != expect {
			t.Fatalf("expected %s, got %s", expect, role)
		}
	}
	for _, input := range []string{"", "superadmin", "teacher", "dev"} {
		if _, err := ParseRole(input); err == nil {
			t.Fatalf("expected role %q to be rejected", input)
		}
	}
}

func TestParseTicketStatus(t *testing.T) {
	for input, expect := range map[string]TicketStatus{
		"open":   TicketOpen,
		"closed": TicketClosed,
		"Open":   TicketOpen,
	} {
		status, err := ParseTicketStatus(input)
		if err != nil {
			t.Fatalf("expected status %q to be valid", input)
		}
		if status != expect {
			t.Fatalf("expected %s, got %s", expect, status)
		}
	}
	for _, input := range []string{"", "pending", "resolved"} {
		if _, err := ParseTicketStatus(input); err == nil {
			t.Fatalf("expected status %q to be rejected", input)
		}
	}
}
