package platform_test

import (
	"errors"
	"testing"

	"github.com/citescope/citescope/pkg/platform"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    platform.Platform
		wantErr bool
	}{
		{"chatgpt", platform.ChatGPT, false},
		{"Claude", platform.Claude, false},
		{"  GEMINI ", platform.Gemini, false},
		{"bing", platform.Bing, false},
		{"mastodon-bot", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := platform.Parse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				if !errors.Is(err, platform.ErrUnknownPlatform) {
					t.Errorf("expected ErrUnknownPlatform, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestUnknownErrorMessage(t *testing.T) {
	_, err := platform.Parse("mastodon-bot")
	if err.Error() != "Unknown platform: mastodon-bot" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestEnumerationOrder(t *testing.T) {
	want := []string{"chatgpt", "claude", "gemini", "bing"}
	got := platform.Names()
	if len(got) != len(want) {
		t.Fatalf("expected %d platforms, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %s, want %s", i, got[i], want[i])
		}
		if platform.Platform(want[i]).Ordinal() != i {
			t.Errorf("ordinal of %s should be %d", want[i], i)
		}
	}

	// All returns a copy
	ps := platform.All()
	ps[0] = "x"
	if platform.All()[0] != platform.ChatGPT {
		t.Error("All() should not expose internal slice")
	}
}
