package htmlsanitize_test

import (
	"testing"

	"github.com/dalemusser/ukmhub/internal/app/system/htmlsanitize"
)

func TestText_StripsTags(t *testing.T) {
	in := `I want to <script>alert("join")</script><b>join</b> the robotics club`
	got := htmlsanitize.Text(in)
	want := "I want to join the robotics club"
	if got != want {
		t.Errorf("Text = %q, want %q", got, want)
	}
}

func TestText_PlainTextUnchanged(t *testing.T) {
	in := "Saya ingin belajar organisasi"
	if got := htmlsanitize.Text(in); got != in {
		t.Errorf("Text = %q, want %q", got, in)
	}
}

func TestText_Trims(t *testing.T) {
	if got := htmlsanitize.Text("  hello  "); got != "hello" {
		t.Errorf("Text = %q, want %q", got, "hello")
	}
}
