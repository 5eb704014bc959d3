package docs

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo.jpg"},
		{"../../etc/passwd", "passwd"},
		{"laporan kegiatan.pdf", "laporan_kegiatan.pdf"},
		{"rapat#1?.png", "rapat_1_.png"},
		{"", "file"},
		{"...", "..."},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeFilename_TruncatesLongNamesKeepingExtension(t *testing.T) {
	long := strings.Repeat("a", 200) + ".jpg"
	got := sanitizeFilename(long)
	if len(got) > 100 {
		t.Errorf("len = %d, want <= 100", len(got))
	}
	if !strings.HasSuffix(got, ".jpg") {
		t.Errorf("extension lost: %q", got)
	}
}
