package text

import "testing"

var titles = []string{"Coq au Vin", "Croissants Parisiens", "Tarte aux Fraises", "Crème Brûlée"}

func TestCorrector_Correct(t *testing.T) {
	c := NewCorrector(DefaultMaxCorrectionDistance)

	tests := []struct {
		token  string
		want   string
		wantOK bool
	}{
		{"tart", "tarte", true},
		{"fraizes", "fraises", true},
		{"creme", "creme", true},
		{"croisants", "croissants", true},
		{"bouillabaisse", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		got, ok := c.Correct(tc.token, titles)
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("Correct(%q) = (%q, %v), want (%q, %v)", tc.token, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestCorrector_CutoffIsConfigurable(t *testing.T) {
	strict := NewCorrector(0)
	if _, ok := strict.Correct("tart", titles); ok {
		t.Error("distance 0 cutoff must reject tart -> tarte")
	}
	if got, ok := strict.Correct("vin", titles); !ok || got != "vin" {
		t.Errorf("exact word: got (%q, %v)", got, ok)
	}
}

func TestCorrector_TieKeepsFirst(t *testing.T) {
	c := NewCorrector(1)
	got, ok := c.Correct("bat", []string{"cat hat"})
	if !ok || got != "cat" {
		t.Errorf("Correct(bat) = (%q, %v), want (cat, true)", got, ok)
	}
}

func TestNewCorrector_NegativeUsesDefault(t *testing.T) {
	if got := NewCorrector(-1).MaxDistance(); got != DefaultMaxCorrectionDistance {
		t.Errorf("MaxDistance = %d, want %d", got, DefaultMaxCorrectionDistance)
	}
}
