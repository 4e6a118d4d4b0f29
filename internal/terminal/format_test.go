package terminal

import (
	"strings"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "0.5s"},
		{12 * time.Second, "12.0s"},
		{90 * time.Second, "1m 30.0s"},
		{2*time.Minute + 5*time.Second, "2m 5.0s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate short = %q", got)
	}
	got := Truncate(strings.Repeat("a", 20), 10)
	if len([]rune(got)) != 10 {
		t.Errorf("Truncate length = %d, want 10", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Truncate missing ellipsis: %q", got)
	}
}

func TestRuler_DisabledColors(t *testing.T) {
	WithColorsDisabled(func() {
		if got := Ruler(5, "-"); got != "-----" {
			t.Errorf("Ruler = %q, want -----", got)
		}
	})
}
