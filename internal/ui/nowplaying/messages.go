package nowplaying

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavedeck/internal/errmsg"
	"github.com/llehouerou/wavedeck/internal/playback"
)

// actionTimeout bounds each playback call made from a key press.
const actionTimeout = 5 * time.Second

type (
	stateMsg    playback.StateChange
	trackMsg    playback.TrackChange
	positionMsg playback.PositionChange
	queueMsg    playback.QueueChange
	modeMsg     playback.ModeChange
	errorMsg    playback.ErrorEvent
	closedMsg   struct{}
	refreshMsg  struct{}
	savedMsg    struct{}
	volumeMsg   int

	actionErrMsg struct {
		op  errmsg.Op
		err error
	}
)

// listen waits for the next playback event.
func listen(sub *playback.Subscription) tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return stateMsg(e)
		case e := <-sub.TrackChanged:
			return trackMsg(e)
		case e := <-sub.PositionChanged:
			return positionMsg(e)
		case e := <-sub.QueueChanged:
			return queueMsg(e)
		case e := <-sub.ModeChanged:
			return modeMsg(e)
		case e := <-sub.Error:
			return errorMsg(e)
		case <-sub.Done:
			return closedMsg{}
		}
	}
}

// do runs a playback call off the update loop.
func do(op errmsg.Op, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			return actionErrMsg{op: op, err: err}
		}
		return refreshMsg{}
	}
}
