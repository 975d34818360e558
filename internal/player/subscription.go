package player

const eventBufferSize = 32

// Subscription delivers engine events to one consumer.
type Subscription struct {
	Events <-chan Event
	Done   <-chan struct{}

	eventsCh chan Event
	doneCh   chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		eventsCh: make(chan Event, eventBufferSize),
		doneCh:   make(chan struct{}),
	}
	s.Events = s.eventsCh
	s.Done = s.doneCh
	return s
}

func (s *Subscription) close() {
	close(s.doneCh)
}

// send delivers e without blocking; the event is dropped if the buffer is full.
func (s *Subscription) send(e Event) {
	select {
	case s.eventsCh <- e:
	default:
	}
}
