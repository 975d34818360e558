package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
//
// Every channel is buffered; events are dropped for a subscriber whose
// buffer is full. Done is closed when the service closes.
type Subscription struct {
	StateChanged    <-chan StateChange
	TrackChanged    <-chan TrackChange
	PositionChanged <-chan PositionChange
	QueueChanged    <-chan QueueChange
	ModeChanged     <-chan ModeChange
	Error           <-chan ErrorEvent
	Done            <-chan struct{}

	stateCh    chan StateChange
	trackCh    chan TrackChange
	positionCh chan PositionChange
	queueCh    chan QueueChange
	modeCh     chan ModeChange
	errorCh    chan ErrorEvent
	doneCh     chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:    make(chan StateChange, eventBufferSize),
		trackCh:    make(chan TrackChange, eventBufferSize),
		positionCh: make(chan PositionChange, eventBufferSize),
		queueCh:    make(chan QueueChange, eventBufferSize),
		modeCh:     make(chan ModeChange, eventBufferSize),
		errorCh:    make(chan ErrorEvent, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.TrackChanged = s.trackCh
	s.PositionChanged = s.positionCh
	s.QueueChanged = s.queueCh
	s.ModeChanged = s.modeCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

func (s *Subscription) close() {
	close(s.doneCh)
}

// trySend delivers v unless the buffer is full.
func trySend[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

func (s *Subscription) sendState(e StateChange)       { trySend(s.stateCh, e) }
func (s *Subscription) sendTrack(e TrackChange)       { trySend(s.trackCh, e) }
func (s *Subscription) sendPosition(e PositionChange) { trySend(s.positionCh, e) }
func (s *Subscription) sendQueue(e QueueChange)       { trySend(s.queueCh, e) }
func (s *Subscription) sendMode(e ModeChange)         { trySend(s.modeCh, e) }
func (s *Subscription) sendError(e ErrorEvent)        { trySend(s.errorCh, e) }
