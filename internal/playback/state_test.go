// internal/playback/state_test.go
package playback

import (
	"testing"

	"github.com/llehouerou/wavedeck/internal/player"
)

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateStopped, "Stopped"},
		{StatePlaying, "Playing"},
		{StatePaused, "Paused"},
		{State(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestState_IsActive(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateStopped, false},
		{StatePlaying, true},
		{StatePaused, true},
	}
	for _, tt := range tests {
		if got := tt.state.IsActive(); got != tt.want {
			t.Errorf("%v.IsActive() = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestRepeatMode_String(t *testing.T) {
	tests := []struct {
		mode RepeatMode
		want string
	}{
		{RepeatAll, "All"},
		{RepeatOne, "One"},
		{RepeatMode(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestParseRepeatMode(t *testing.T) {
	tests := []struct {
		in      string
		want    RepeatMode
		wantErr bool
	}{
		{"all", RepeatAll, false},
		{"", RepeatAll, false},
		{" One ", RepeatOne, false},
		{"shuffle", RepeatAll, true},
	}
	for _, tt := range tests {
		got, err := ParseRepeatMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRepeatMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseRepeatMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFromPlayerState(t *testing.T) {
	tests := []struct {
		in   player.State
		want State
	}{
		{player.Uninitialized, StateStopped},
		{player.Ready, StateStopped},
		{player.Stopped, StateStopped},
		{player.Playing, StatePlaying},
		{player.Paused, StatePaused},
	}
	for _, tt := range tests {
		if got := fromPlayerState(tt.in); got != tt.want {
			t.Errorf("fromPlayerState(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
