package components

import (
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// TickMsg advances the stopwatch whose ID matches. Ticks carrying an old tag
// are rejected, so a restarted stopwatch never runs two tick chains.
type TickMsg struct {
	ID  int
	tag int
}

// Stopwatch shows how long a request has been in flight.
type Stopwatch struct {
	d       time.Duration
	id      int
	tag     int
	running bool

	// How long to wait before every tick. Defaults to 100ms.
	Interval time.Duration
}

func NewStopwatch() Stopwatch {
	return Stopwatch{Interval: 100 * time.Millisecond, id: nextID()}
}

func (m Stopwatch) ID() int { return m.id }

// Start resets the elapsed time and starts ticking.
func (m *Stopwatch) Start() tea.Cmd {
	m.d = 0
	m.running = true
	m.tag++
	return tick(m.id, m.tag, m.Interval)
}

// Stop freezes the elapsed time.
func (m *Stopwatch) Stop() {
	m.running = false
}

func (m Stopwatch) Running() bool { return m.running }

// Update handles the timer tick.
func (m Stopwatch) Update(msg tea.Msg) (Stopwatch, tea.Cmd) {
	t, ok := msg.(TickMsg)
	if !ok || !m.running || t.ID != m.id || t.tag != m.tag {
		return m, nil
	}
	m.d += m.Interval
	return m, tick(m.id, m.tag, m.Interval)
}

func (m Stopwatch) Elapsed() time.Duration { return m.d }

// View formats the elapsed time as seconds, or minutes and seconds.
func (m Stopwatch) View() string {
	seconds := m.d.Seconds()
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}

	minutes := int(seconds / 60)
	remainingSeconds := seconds - float64(minutes*60)
	return fmt.Sprintf("%dm %.1fs", minutes, remainingSeconds)
}

func tick(id int, tag int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return TickMsg{ID: id, tag: tag}
	})
}
