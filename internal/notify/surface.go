package notify

import (
	"sort"
	"sync"
	"time"

	"k8s.io/apimachinery/pkg/util/clock"
)

// DefaultTTL is how long a Notice remains on display unless dismissed
// sooner.
const DefaultTTL = 10 * time.Second

// Level distinguishes the kinds of Notice.
type Level string

const (
	// LevelInfo is for neutral progress messages.
	LevelInfo Level = "info"
	// LevelSuccess is for completed actions.
	LevelSuccess Level = "success"
	// LevelError is for failures.
	LevelError Level = "error"
)

// Notice is a single transient message.
type Notice struct {
	ID      uint64
	Level   Level
	Message string
	Shown   time.Time
}

// Renderer presents Notices to a user.
type Renderer interface {
	// Show is called once when a Notice is raised.
	Show(Notice)
	// Hide is called once when a Notice is dismissed or expires.
	Hide(Notice)
}

// Surface displays transient Notices, each of which dismisses itself after a
// fixed delay. It is safe for use by multiple goroutines.
type Surface interface {
	// Info raises an informational Notice and returns its ID.
	Info(message string) uint64
	// Success raises a success Notice and returns its ID.
	Success(message string) uint64
	// Error raises an error Notice and returns its ID.
	Error(message string) uint64
	// Dismiss removes the specified Notice ahead of its expiry. Dismissing a
	// Notice that is no longer displayed is a no-op.
	Dismiss(id uint64)
	// Active returns the Notices currently displayed, oldest first.
	Active() []Notice
	// Close dismisses every active Notice and stops all timers.
	Close()
}

type entry struct {
	notice Notice
	timer  clock.Timer
	done   chan struct{}
}

type surface struct {
	renderer Renderer
	clock    clock.Clock
	ttl      time.Duration
	nextID   uint64
	active   map[uint64]*entry
	mu       sync.Mutex
}

// NewSurface returns a Surface that hands Notices to the specified Renderer.
// A non-positive ttl selects DefaultTTL.
func NewSurface(renderer Renderer, clk clock.Clock, ttl time.Duration) Surface {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &surface{
		renderer: renderer,
		clock:    clk,
		ttl:      ttl,
		active:   map[uint64]*entry{},
	}
}

func (s *surface) Info(message string) uint64 {
	return s.raise(LevelInfo, message)
}

func (s *surface) Success(message string) uint64 {
	return s.raise(LevelSuccess, message)
}

func (s *surface) Error(message string) uint64 {
	return s.raise(LevelError, message)
}

func (s *surface) raise(level Level, message string) uint64 {
	s.mu.Lock()
	s.nextID++
	e := &entry{
		notice: Notice{
			ID:      s.nextID,
			Level:   level,
			Message: message,
			Shown:   s.clock.Now(),
		},
		timer: s.clock.NewTimer(s.ttl),
		done:  make(chan struct{}),
	}
	s.active[e.notice.ID] = e
	s.mu.Unlock()

	if s.renderer != nil {
		s.renderer.Show(e.notice)
	}
	go func() {
		select {
		case <-e.timer.C():
			s.Dismiss(e.notice.ID)
		case <-e.done:
		}
	}()
	return e.notice.ID
}

func (s *surface) Dismiss(id uint64) {
	s.mu.Lock()
	e, ok := s.active[id]
	if ok {
		delete(s.active, id)
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	e.timer.Stop()
	close(e.done)
	if s.renderer != nil {
		s.renderer.Hide(e.notice)
	}
}

func (s *surface) Active() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	notices := make([]Notice, 0, len(s.active))
	for _, e := range s.active {
		notices = append(notices, e.notice)
	}
	sort.Slice(notices, func(i, j int) bool {
		return notices[i].ID < notices[j].ID
	})
	return notices
}

func (s *surface) Close() {
	for _, notice := range s.Active() {
		s.Dismiss(notice.ID)
	}
}
