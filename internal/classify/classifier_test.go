package classify

import (
	"strings"
	"testing"
)

func TestNormalizeDashes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"en dash", "2025 – January", "2025 - January"},
		{"em dash", "2025 — January", "2025 - January"},
		{"figure dash", "2025 ‒ January", "2025 - January"},
		{"plain hyphen untouched", "2025 - January", "2025 - January"},
		{"mixed", "A – B — C - D", "A - B - C - D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDashes(tt.input); got != tt.want {
				t.Errorf("NormalizeDashes(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestClassifier_Market(t *testing.T) {
	c := New()

	tests := []struct {
		name         string
		workingTitle string
		title        string
		want         string
	}{
		{
			name:         "canonical last segment",
			workingTitle: "2025 - January - Versuni - Airfryer - FR",
			want:         "FR",
		},
		{
			name:         "em dash separators classify like hyphens",
			workingTitle: "2025 – January – Versuni – FAEM – DE",
			want:         "DE",
		},
		{
			name:         "alias PL resolves to POL",
			workingTitle: "2025 - January - Versuni - Blender - PL",
			want:         "POL",
		},
		{
			name:         "market in non-standard position",
			workingTitle: "2025 - UK - Versuni - Handstick",
			want:         "UK",
		},
		{
			name:         "fallback to title field",
			workingTitle: "Versuni Wave III",
			title:        "Airfryer visits NL retail",
			want:         "NL",
		},
		{
			name:         "title field alias bounded by spaces",
			workingTitle: "no segments here",
			title:        "Blender PL wave",
			want:         "POL",
		},
		{
			name:         "no market anywhere",
			workingTitle: "2025 - January - Versuni - Airfryer",
			title:        "Airfryer",
			want:         Unknown,
		},
		{
			name:         "empty titles",
			workingTitle: "",
			title:        "",
			want:         Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Market(tt.workingTitle, tt.title); got != tt.want {
				t.Errorf("Market(%q, %q) = %q, want %q", tt.workingTitle, tt.title, got, tt.want)
			}
		})
	}
}

func TestClassifier_Category(t *testing.T) {
	c := New()

	tests := []struct {
		name         string
		workingTitle string
		title        string
		want         string
	}{
		{
			name:         "canonical second-to-last segment",
			workingTitle: "2025 - January - Versuni - Airfryer - FR",
			want:         "Airfryer",
		},
		{
			name:         "en dash separators classify like hyphens",
			workingTitle: "2025 – January – Versuni – FAEM – DE",
			want:         "FAEM",
		},
		{
			name:         "steam generator beats steamer",
			workingTitle: "2025 - January - Versuni - Steam Generator - DE",
			want:         "Steam_Generator",
		},
		{
			name:         "stand steamer beats steamer",
			workingTitle: "2025 - January - Versuni - Stand Steamer - FR",
			want:         "Stand_Steamer",
		},
		{
			name:         "plain steamer is handheld",
			workingTitle: "2025 - January - Versuni - Steamer - FR",
			want:         "Handheld_Steamer",
		},
		{
			name:         "wet and dry beats handstick",
			workingTitle: "2025 - January - Versuni - Handstick W&D - NL",
			want:         "Handstick_WD",
		},
		{
			name:         "segment scan skips year month brand and market",
			workingTitle: "2025 - January - Versuni - DE - Robot vacuum",
			want:         "RVC",
		},
		{
			name:         "fallback to title field",
			workingTitle: "2025 - January",
			title:        "Baristina visits",
			want:         "SAEM",
		},
		{
			name:         "unknown category preserved verbatim",
			workingTitle: "2025 - January - Versuni - Garlic_Press - DE",
			want:         "Garlic_Press",
		},
		{
			name:         "no segments at all",
			workingTitle: "",
			title:        "",
			want:         Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Category(tt.workingTitle, tt.title); got != tt.want {
				t.Errorf("Category(%q, %q) = %q, want %q", tt.workingTitle, tt.title, got, tt.want)
			}
		})
	}
}

// TestKeywordTableOrdering asserts that for every overlapping keyword pair,
// the more specific keyword appears first in table order. A later-added
// keyword that is a superstring of an earlier one would be shadowed forever.
func TestKeywordTableOrdering(t *testing.T) {
	for i, specific := range CategoryKeywords {
		for j := 0; j < i; j++ {
			general := CategoryKeywords[j]
			if general.Keyword != specific.Keyword && strings.Contains(specific.Keyword, general.Keyword) &&
				general.Category != specific.Category {
				t.Errorf("keyword %q (index %d, -> %s) is shadowed by earlier %q (index %d, -> %s)",
					specific.Keyword, i, specific.Category, general.Keyword, j, general.Category)
			}
		}
	}
}

func TestClassifier_Classify(t *testing.T) {
	c := New()

	key := c.Classify("2025 – January – Versuni – Handheld Steamer – FR", "")
	if key.Market != "FR" || key.Category != "Handheld_Steamer" {
		t.Errorf("Classify returned %+v, want FR/Handheld_Steamer", key)
	}
	if key.Unknown() {
		t.Error("key should not be unknown")
	}

	unknown := c.Classify("just some text", "")
	if !unknown.Unknown() {
		t.Errorf("expected unknown market, got %+v", unknown)
	}
}
