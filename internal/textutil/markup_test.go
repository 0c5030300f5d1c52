package textutil

import "testing"

func TestSanitizeMarkup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"blank", "  ", ""},
		{"plain", "Two Towers", "Two Towers"},
		{"highlight placeholders", " !HSTwo!HE  Towers ", "Two Towers"},
		{"tags", "<b>Two</b> <i>Towers</i>", "Two Towers"},
		{"entities", "Tom &amp; Jerry", "Tom & Jerry"},
		{"newlines collapse", "first line\n\n second", "first line second"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeMarkup(tt.input); got != tt.want {
				t.Errorf("SanitizeMarkup(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFirstDelimited(t *testing.T) {
	if got := FirstDelimited(" | http://a/1.jpg|http://a/2.jpg", "|"); got != "http://a/1.jpg" {
		t.Fatalf("FirstDelimited = %q", got)
	}
	if got := FirstDelimited("", "|"); got != "" {
		t.Fatalf("FirstDelimited(empty) = %q", got)
	}
}
