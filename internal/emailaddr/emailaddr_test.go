package emailaddr

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  User@Example.COM  ", "user@example.com"},
		{"user@example.com", "user@example.com"},
		{"\tMIXED@Case.Org\n", "mixed@case.org"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeAndValidate(t *testing.T) {
	got, err := NormalizeAndValidate("  User@Example.COM  ")
	if err != nil {
		t.Fatalf("NormalizeAndValidate failed: %v", err)
	}
	if got != "user@example.com" {
		t.Fatalf("got %q, want %q", got, "user@example.com")
	}

	for _, bad := range []string{"", "   ", "not-an-email", "a b@example.com", "Name <x@example.com>"} {
		if _, err := NormalizeAndValidate(bad); err == nil {
			t.Errorf("NormalizeAndValidate(%q) accepted invalid input", bad)
		}
	}
}
