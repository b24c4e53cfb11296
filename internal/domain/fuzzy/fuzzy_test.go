package fuzzy

import "testing"

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"identical", "hello", "hello", 0},
		{"empty both", "", "", 0},
		{"empty left", "", "abc", 3},
		{"empty right", "abc", "", 3},
		{"substitution", "kitten", "sitten", 1},
		{"classic", "kitten", "sitting", 3},
		{"insertion", "mall", "malls", 1},
		{"thai runes counted once", "ร้าน", "ร้าน", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); got != tt.want {
				t.Errorf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"hello", "hallo"},
		{"search", "serach"},
		{"ห้าง", "ห้างสรรพสินค้า"},
	}
	for _, p := range pairs {
		if Distance(p[0], p[1]) != Distance(p[1], p[0]) {
			t.Errorf("Distance(%q, %q) not symmetric", p[0], p[1])
		}
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "hello", "hello", 1.0},
		{"both empty", "", "", 1.0},
		{"disjoint", "ab", "cd", 0.0},
		{"one edit in four", "mall", "mell", 0.75},
		{"one edit in five", "malls", "mall", 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similarity(tt.a, tt.b); got != tt.want {
				t.Errorf("Similarity(%q, %q) = %g, want %g", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name      string
		term      string
		candidate string
		want      bool
	}{
		{"exact", "search", "search", true},
		{"one typo long term", "search", "serch", true},
		{"too different", "search", "banana", false},
		// similarity 0.75 meets the default threshold exactly
		{"borderline default", "mall", "mell", true},
		// short terms need 0.80; one edit in three runes is 0.67
		{"short term strict", "cat", "cut", false},
		{"short term exact", "cat", "cat", true},
		// length pre-filter rejects before any distance work
		{"length delta exceeded", "mall", "mallllllll", false},
		// tone mark difference normalizes away entirely
		{"thai tone marks", "ร้าน", "ราน", true},
		{"thai unrelated", "ร้าน", "หนังสือ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := th.Match(tt.term, tt.candidate); got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.term, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestMatch_LengthPrefilterBeforeThai(t *testing.T) {
	th := DefaultThresholds()
	// 4 runes vs 14 runes: rejected by the delta cap even though both are Thai
	if th.Match("ห้าง", "ห้างสรรพสินค้า") {
		t.Error("expected length pre-filter to reject")
	}
}
