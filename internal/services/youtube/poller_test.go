package youtube

import "testing"

func TestNormalizeHandle(t *testing.T) {
	cases := map[string]string{
		"@somechannel":   "somechannel",
		"somechannel":    "somechannel",
		"  @spaced  ":    "spaced",
		"@@doubled":      "@doubled",
		"":               "",
	}
	for in, want := range cases {
		if got := normalizeHandle(in); got != want {
			t.Errorf("normalizeHandle(%q) = %q, want %q", in, got, want)
		}
	}
}
