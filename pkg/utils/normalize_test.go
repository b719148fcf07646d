package utils

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Plaza Zañartu", "plaza zanartu"},
		{"  ÑUÑOA  ", "nunoa"},
		{"Viña del Mar", "vina del mar"},
		{"already plain", "already plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	if got := Slugify("Edificio Los Álamos 2"); got != "edificio-los-lamos-2" {
		// Slugify drops non-ascii letters rather than folding them
		t.Errorf("Slugify = %q", got)
	}
}
