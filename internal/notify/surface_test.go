package notify

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/clock"
)

type recordingRenderer struct {
	shown  []Notice
	hidden []Notice
	mu     sync.Mutex
}

func (r *recordingRenderer) Show(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, n)
}

func (r *recordingRenderer) Hide(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hidden = append(r.hidden, n)
}

func (r *recordingRenderer) hiddenCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.hidden)
}

func TestSurfaceExpiry(t *testing.T) {
	fakeClock := clock.NewFakeClock(time.Now())
	renderer := &recordingRenderer{}
	s := NewSurface(renderer, fakeClock, 0)
	defer s.Close()

	id := s.Error("Invalid code")
	require.Len(t, renderer.shown, 1)
	require.Equal(t, LevelError, renderer.shown[0].Level)
	require.Equal(t, "Invalid code", renderer.shown[0].Message)
	require.Len(t, s.Active(), 1)

	fakeClock.Step(DefaultTTL - time.Second)
	require.Len(t, s.Active(), 1)

	fakeClock.Step(time.Second)
	require.Eventually(
		t,
		func() bool { return renderer.hiddenCount() == 1 },
		time.Second,
		5*time.Millisecond,
	)
	require.Empty(t, s.Active())
	require.Equal(t, id, renderer.hidden[0].ID)
}

func TestSurfaceDismiss(t *testing.T) {
	renderer := &recordingRenderer{}
	s := NewSurface(renderer, clock.NewFakeClock(time.Now()), time.Minute)
	defer s.Close()

	first := s.Success("Saved")
	second := s.Info("Working")
	active := s.Active()
	require.Len(t, active, 2)
	require.Equal(t, first, active[0].ID)
	require.Equal(t, second, active[1].ID)

	s.Dismiss(first)
	s.Dismiss(first)
	active = s.Active()
	require.Len(t, active, 1)
	require.Equal(t, second, active[0].ID)
	require.Equal(t, 1, renderer.hiddenCount())
}

func TestSurfaceClose(t *testing.T) {
	renderer := &recordingRenderer{}
	s := NewSurface(renderer, clock.NewFakeClock(time.Now()), time.Minute)
	s.Info("one")
	s.Info("two")
	s.Close()
	require.Empty(t, s.Active())
	require.Equal(t, 2, renderer.hiddenCount())
}

func TestWriterRenderer(t *testing.T) {
	color.NoColor = true
	buf := &bytes.Buffer{}
	r := NewWriterRenderer(buf)
	r.Show(Notice{Level: LevelError, Message: "Invalid code"})
	r.Show(Notice{Level: LevelSuccess, Message: "Verified"})
	r.Hide(Notice{Level: LevelSuccess, Message: "Verified"})
	require.Equal(t, "✖ Invalid code\n✔ Verified\n", buf.String())
}
