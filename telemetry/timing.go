package telemetry

import (
	"io"
	"sync"
	"time"
)

// TimingCollector builds a tree of timings. The first timer started becomes
// the root; later Start calls nest under whichever timer is still open.
// It is safe for concurrent use.
type TimingCollector struct {
	mu      sync.Mutex
	roots   []*span
	current *span
}

type span struct {
	name     string
	start    time.Time
	end      time.Time
	parent   *span
	children []*span
}

func (s *span) duration() time.Duration {
	if s.end.IsZero() {
		return time.Since(s.start)
	}
	return s.end.Sub(s.start)
}

// NewTimingCollector returns an empty collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{}
}

// Start implements Collector.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &span{name: name, start: time.Now(), parent: c.current}
	if c.current == nil {
		c.roots = append(c.roots, s)
	} else {
		c.current.children = append(c.current.children, s)
	}
	c.current = s

	return &spanTimer{collector: c, span: s}
}

// Report implements Collector.
func (c *TimingCollector) Report(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, root := range c.roots {
		writeTree(w, root)
	}
}

type spanTimer struct {
	collector *TimingCollector
	span      *span
}

func (t *spanTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	if !t.span.end.IsZero() {
		return
	}
	t.span.end = time.Now()
	if t.collector.current == t.span {
		t.collector.current = t.span.parent
	}
}

// Child nests explicitly under t without changing where Start attaches.
func (t *spanTimer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	s := &span{name: name, start: time.Now(), parent: t.span}
	t.span.children = append(t.span.children, s)

	return &spanTimer{collector: t.collector, span: s}
}
