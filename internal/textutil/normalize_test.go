package textutil

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"blank", "   ", ""},
		{"punctuation and spacing", "Two Towers : Part 2", "twotowerspart2"},
		{"full width colon", "두 개의 탑：확장판", "두개의탑확장판"},
		{"parenthetical note", "Alien (Director's Cut)", "alien"},
		{"square brackets", "[Remastered] Heat", "heat"},
		{"highlight markup", "!HSTwo!HE Towers", "twotowers"},
		{"html tags", "<b>Two</b> Towers", "twotowers"},
		{"hyphen and underscore", "Spider-Man_Home", "spidermanhome"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.input); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeQueryKeepsPunctuation(t *testing.T) {
	got := NormalizeQuery("!HSTwo Towers!HE :  Part 2 (2002)")
	if got != "Two Towers : Part 2" {
		t.Fatalf("NormalizeQuery = %q", got)
	}
}

func TestSimplifyTitle(t *testing.T) {
	tests := map[string]string{
		"Two Towers : Part 2":     "Two Towers Part 2",
		"반지의 제왕 - 두 개의 탑":        "반지의 제왕 두 개의 탑",
		"Heat (1995)":             "Heat",
		"":                        "",
		"Plain":                   "Plain",
		"Mission_Impossible [4K]": "Mission Impossible",
	}
	for input, want := range tests {
		if got := SimplifyTitle(input); got != want {
			t.Errorf("SimplifyTitle(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestLeadingYear(t *testing.T) {
	tests := map[string]int{
		"20021219":   2002,
		"2002-12-19": 2002,
		"prod 1999":  1999,
		"99":         0,
		"":           0,
	}
	for input, want := range tests {
		if got := LeadingYear(input); got != want {
			t.Errorf("LeadingYear(%q) = %d, want %d", input, got, want)
		}
	}
}

func TestFirstNonBlank(t *testing.T) {
	if got := FirstNonBlank("", "  ", " second "); got != "second" {
		t.Fatalf("FirstNonBlank = %q", got)
	}
	if got := FirstNonBlank(); got != "" {
		t.Fatalf("FirstNonBlank() = %q, want empty", got)
	}
}
