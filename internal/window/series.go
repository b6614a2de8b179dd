// Package window holds the bounded rolling windows behind the charts.
//
// A Series is a sliding window of the most recent N (label, value) points.
// A MultiSeries shares one label axis between three datasets; because each
// tick is stored as a single entry, labels and all three datasets always
// have the same length and evict together.
package window

// DefaultPoints is the default window length.
const DefaultPoints = 150

// Point is one labelled value.
type Point struct {
	Label string
	Value float64
}

// Series is a bounded FIFO window of points. Appending to a full series
// evicts the oldest point.
type Series struct {
	r ring[Point]
}

// NewSeries creates a series holding at most n points (DefaultPoints if n <= 0).
func NewSeries(n int) *Series {
	return &Series{r: newRing[Point](n)}
}

// Append adds a point and reports whether the oldest one was evicted.
func (s *Series) Append(label string, value float64) bool {
	return s.r.push(Point{Label: label, Value: value})
}

// Points returns a copy of the window, oldest first.
func (s *Series) Points() []Point {
	return s.r.snapshot()
}

// Labels returns the label axis, oldest first.
func (s *Series) Labels() []string {
	labels := make([]string, s.r.count)
	for i := range labels {
		labels[i] = s.r.at(i).Label
	}
	return labels
}

// Values returns the data array, oldest first.
func (s *Series) Values() []float64 {
	values := make([]float64, s.r.count)
	for i := range values {
		values[i] = s.r.at(i).Value
	}
	return values
}

// Len returns the number of points held.
func (s *Series) Len() int { return s.r.count }

// Cap returns the window length.
func (s *Series) Cap() int { return s.r.size }

// Reset empties the series.
func (s *Series) Reset() { s.r.reset() }

// Tick is one comparison entry: a label and the three signal values.
type Tick struct {
	Label    string
	Main     float64
	Random   float64
	Combined float64
}

// Datasets in a MultiSeries, in display order.
const (
	DatasetMain = iota
	DatasetRandom
	DatasetCombined
)

// MultiSeries is three datasets over one shared label axis.
type MultiSeries struct {
	r ring[Tick]
}

// NewMultiSeries creates a comparison window holding at most n ticks.
func NewMultiSeries(n int) *MultiSeries {
	return &MultiSeries{r: newRing[Tick](n)}
}

// Append adds one tick to the label axis and all datasets at once.
func (m *MultiSeries) Append(label string, main, random, combined float64) bool {
	return m.r.push(Tick{Label: label, Main: main, Random: random, Combined: combined})
}

// Ticks returns a copy of the window, oldest first.
func (m *MultiSeries) Ticks() []Tick {
	return m.r.snapshot()
}

// Labels returns the shared label axis, oldest first.
func (m *MultiSeries) Labels() []string {
	labels := make([]string, m.r.count)
	for i := range labels {
		labels[i] = m.r.at(i).Label
	}
	return labels
}

// Dataset returns one data array (DatasetMain, DatasetRandom or
// DatasetCombined), oldest first. It always has the same length as Labels.
func (m *MultiSeries) Dataset(d int) []float64 {
	values := make([]float64, m.r.count)
	for i := range values {
		t := m.r.at(i)
		switch d {
		case DatasetMain:
			values[i] = t.Main
		case DatasetRandom:
			values[i] = t.Random
		case DatasetCombined:
			values[i] = t.Combined
		}
	}
	return values
}

// Len returns the number of ticks held.
func (m *MultiSeries) Len() int { return m.r.count }

// Cap returns the window length.
func (m *MultiSeries) Cap() int { return m.r.size }

// Reset empties the label axis and every dataset.
func (m *MultiSeries) Reset() { m.r.reset() }
