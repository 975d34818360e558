package queuepanel

import "github.com/llehouerou/wavedeck/internal/ui/styles"

const playingSymbol = "▶"

var (
	headerStyle  = styles.T().S().Title
	modeStyle    = styles.T().S().Subtle
	trackStyle   = styles.T().S().Base
	playingStyle = styles.T().S().Playing
	cursorStyle  = styles.T().S().Cursor
	dimmedStyle  = styles.T().S().Muted
)
