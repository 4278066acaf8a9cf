package notify

import "sync/atomic"

type Channel struct {
	out     chan Event
	dropped uint64
}

func NewChannel(bufferSize int) *Channel {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Channel{out: make(chan Event, bufferSize)}
}

func (c *Channel) C() <-chan Event {
	return c.out
}

func (c *Channel) Dropped() uint64 {
	return atomic.LoadUint64(&c.dropped)
}

func (c *Channel) DeliverReminder(ev Event) {
	ev.Kind = KindReminder
	c.push(ev)
}

func (c *Channel) DeliverEscalationNotice(ev Event) {
	ev.Kind = KindEscalation
	c.push(ev)
}

func (c *Channel) DeliverOnboardingWarning() {
	c.push(Event{Kind: KindOnboarding})
}

func (c *Channel) Available() bool { return true }

func (c *Channel) push(ev Event) {
	select {
	case c.out <- ev:
	default:
		atomic.AddUint64(&c.dropped, 1)
	}
}
