package notify

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/wavedeck/internal/cover"
	"github.com/llehouerou/wavedeck/internal/playback"
)

const trackExpire = 4 * time.Second

// TrackNotifier shows a notification each time a track starts. Successive
// notifications replace each other.
type TrackNotifier struct {
	n      Notifier
	logger zerolog.Logger
	lastID uint32
}

// NewTrackNotifier creates a TrackNotifier sending through n.
func NewTrackNotifier(n Notifier) *TrackNotifier {
	return &TrackNotifier{
		n:      n,
		logger: zlog.Logger.With().Str("component", "notify").Logger(),
	}
}

// Run notifies for every track change until ctx ends or sub closes.
func (t *TrackNotifier) Run(ctx context.Context, sub *playback.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case e := <-sub.TrackChanged:
			if e.Current != nil {
				t.Show(*e.Current)
			}
		}
	}
}

// Show notifies that track started.
func (t *TrackNotifier) Show(track playback.Track) {
	id, err := t.n.Notify(TrackNotification(track, t.lastID))
	if err != nil {
		t.logger.Debug().Err(err).Str("path", track.Path).Msg("notify")
		return
	}
	if id != 0 {
		t.lastID = id
	}
}

// TrackNotification builds the notification for track.
func TrackNotification(track playback.Track, replaces uint32) Notification {
	var body []string
	if track.Artist != "" {
		body = append(body, track.Artist)
	}
	if track.Album != "" {
		body = append(body, track.Album)
	}
	return Notification{
		Title:    track.DisplayName(),
		Body:     strings.Join(body, " - "),
		Icon:     cover.Find(track.Path),
		Expire:   trackExpire,
		Replaces: replaces,
		Urgency:  UrgencyLow,
	}
}
