package detector

import "testing"

func TestIsRestricted(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"chrome://settings", true},
		{"chrome-extension://abcdef/panel.html", true},
		{"edge://flags", true},
		{"about:blank", true},
		{"view-source:https://example.com", true},
		{"file:///home/user/doc.html", true},
		{"devtools://devtools/bundled/inspector.html", true},
		{"CHROME://newtab", true},
		{"https://chrome.google.com/webstore/detail/xyz", true},
		{"https://chromewebstore.google.com/detail/xyz", true},
		{"https://chrome.google.com/search", false},
		{"https://example.com/chrome://", false},
		{"https://en.wikipedia.org/wiki/Go_(programming_language)", false},
		{"http://localhost:8080/", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := IsRestricted(tt.url); got != tt.want {
				t.Errorf("IsRestricted(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{
			name:   "english",
			text:   "The quick brown fox jumps over the lazy dog while the farmer watches from the porch and drinks his morning coffee.",
			want:   "English",
			wantOK: true,
		},
		{
			name:   "german",
			text:   "Der schnelle braune Fuchs springt über den faulen Hund, während der Bauer von der Veranda aus zusieht und seinen Kaffee trinkt.",
			want:   "German",
			wantOK: true,
		},
		{
			name:   "too short",
			text:   "Hello",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetectLanguage(tt.text)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("DetectLanguage() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
