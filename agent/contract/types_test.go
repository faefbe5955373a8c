package contract

import "testing"

func TestNormalizeTokenIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Billing",
		" technical ",
		"GENERAL",
		"",
		"  Multi Word Output  ",
		"urgent",
	}

	for _, in := range inputs {
		once := NormalizeToken(in)
		twice := NormalizeToken(once)
		if once != twice {
			t.Fatalf("normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	cases := []struct {
		token string
		want  Category
	}{
		{"billing", CategoryBilling},
		{"technical", CategoryTechnical},
		{"general", CategoryGeneral},
		{"urgent", CategoryUnrecognized},
		{"", CategoryUnrecognized},
		{"billing and technical", CategoryUnrecognized},
		{"bill", CategoryUnrecognized},
	}

	for _, tc := range cases {
		if got := ParseCategory(tc.token); got != tc.want {
			t.Fatalf("ParseCategory(%q) = %s, want %s", tc.token, got, tc.want)
		}
	}
}

func TestParseCategoryDistinguishesGeneralFromUnrecognized(t *testing.T) {
	t.Parallel()

	if ParseCategory("general") == ParseCategory("urgent") {
		t.Fatal("intentional general category must not equal the unrecognized fallback")
	}
}
