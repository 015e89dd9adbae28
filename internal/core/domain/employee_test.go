package domain

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"", RoleUser, false},
		{"user", RoleUser, false},
		{"admin", RoleAdmin, false},
		{" admin ", RoleAdmin, false},
		{"manager", "", true},
		{"Admin", "", true},
	}

	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrValidation) {
				t.Errorf("ParseRole(%q): expected ErrValidation, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRole(%q): unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseRole(%q): want %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestEmployee_Validate(t *testing.T) {
	valid := Employee{Name: "Bob", Email: "b@x.com", Role: RoleUser, Department: "Sales"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid employee, got %v", err)
	}

	cases := map[string]func(e *Employee){
		"blank name":       func(e *Employee) { e.Name = "  " },
		"blank email":      func(e *Employee) { e.Email = "" },
		"blank department": func(e *Employee) { e.Department = "" },
		"bad role":         func(e *Employee) { e.Role = "owner" },
	}
	for name, mutate := range cases {
		e := valid
		mutate(&e)
		if err := e.Validate(); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", name, err)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Bob@X.com "); got != "bob@x.com" {
		t.Fatalf("unexpected normalized email %q", got)
	}
}
