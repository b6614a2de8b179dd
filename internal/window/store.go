package window

import "sync"

// SeriesID names a chart dataset as seen by a Renderer.
type SeriesID int

const (
	SeriesMain SeriesID = iota
	SeriesRandom
	SeriesCombined
	// Comparison chart datasets share one label axis.
	SeriesCompareMain
	SeriesCompareRandom
	SeriesCompareCombined
)

// AllSeries lists every SeriesID in display order.
var AllSeries = []SeriesID{
	SeriesMain, SeriesRandom, SeriesCombined,
	SeriesCompareMain, SeriesCompareRandom, SeriesCompareCombined,
}

func (id SeriesID) String() string {
	switch id {
	case SeriesMain:
		return "main"
	case SeriesRandom:
		return "random"
	case SeriesCombined:
		return "combined"
	case SeriesCompareMain:
		return "compare.main"
	case SeriesCompareRandom:
		return "compare.random"
	case SeriesCompareCombined:
		return "compare.combined"
	default:
		return "unknown"
	}
}

// Renderer receives store mutations for presentation. Eviction is the
// store's job; a renderer only mirrors appends and clears.
type Renderer interface {
	Append(id SeriesID, label string, value float64)
	Clear(id SeriesID)
}

// Snapshot is a point-in-time copy of every window, safe to use without locks.
type Snapshot struct {
	Main     []Point
	Random   []Point
	Combined []Point
	Compare  []Tick
	Cap      int
}

// Store owns the three single-value series and the comparison series.
// Goroutine-safe: the read loop records samples while the UI takes snapshots.
type Store struct {
	mu       sync.Mutex
	main     *Series
	random   *Series
	combined *Series
	compare  *MultiSeries
	size     int

	renderer Renderer // nil until SetRenderer
}

// NewStore creates a store whose windows each hold n points.
func NewStore(n int) *Store {
	if n <= 0 {
		n = DefaultPoints
	}
	return &Store{
		main:     NewSeries(n),
		random:   NewSeries(n),
		combined: NewSeries(n),
		compare:  NewMultiSeries(n),
		size:     n,
	}
}

// SetRenderer attaches r. Pass nil to detach.
func (s *Store) SetRenderer(r Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderer = r
}

// RecordSample appends one tick to every window under a single lock, so no
// reader ever observes labels and values of different lengths.
func (s *Store) RecordSample(label string, main, random, combined float64) {
	s.mu.Lock()
	s.main.Append(label, main)
	s.random.Append(label, random)
	s.combined.Append(label, combined)
	s.compare.Append(label, main, random, combined)
	r := s.renderer
	s.mu.Unlock()

	// Renderer is called outside the lock so it may take a Snapshot.
	if r == nil {
		return
	}
	r.Append(SeriesMain, label, main)
	r.Append(SeriesRandom, label, random)
	r.Append(SeriesCombined, label, combined)
	r.Append(SeriesCompareMain, label, main)
	r.Append(SeriesCompareRandom, label, random)
	r.Append(SeriesCompareCombined, label, combined)
}

// Clear empties every window.
func (s *Store) Clear() {
	s.mu.Lock()
	s.main.Reset()
	s.random.Reset()
	s.combined.Reset()
	s.compare.Reset()
	r := s.renderer
	s.mu.Unlock()

	if r == nil {
		return
	}
	for _, id := range AllSeries {
		r.Clear(id)
	}
}

// Len returns the number of ticks currently held (identical across windows).
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.compare.Len()
}

// Cap returns the window length.
func (s *Store) Cap() int {
	return s.size
}

// Snapshot copies every window.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Main:     s.main.Points(),
		Random:   s.random.Points(),
		Combined: s.combined.Points(),
		Compare:  s.compare.Ticks(),
		Cap:      s.size,
	}
}
