package window

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
)

func TestSeriesBoundedWindow(t *testing.T) {
	const n = 5
	s := NewSeries(n)
	for i := 1; i <= 3*n; i++ {
		s.Append(fmt.Sprint(i), float64(i))
		want := i
		if want > n {
			want = n
		}
		if s.Len() != want {
			t.Fatalf("after %d appends Len=%d, want %d", i, s.Len(), want)
		}
		if len(s.Labels()) != len(s.Values()) {
			t.Fatalf("labels=%d values=%d", len(s.Labels()), len(s.Values()))
		}
	}
}

func TestSeriesFIFOEviction(t *testing.T) {
	const n = 4
	s := NewSeries(n)
	for i := 0; i <= n; i++ {
		evicted := s.Append(fmt.Sprint(i), float64(i))
		if evicted != (i == n) {
			t.Errorf("append %d: evicted=%v", i, evicted)
		}
	}

	wantLabels := []string{"1", "2", "3", "4"}
	if got := s.Labels(); !reflect.DeepEqual(got, wantLabels) {
		t.Errorf("Labels = %v, want %v", got, wantLabels)
	}
	wantValues := []float64{1, 2, 3, 4}
	if got := s.Values(); !reflect.DeepEqual(got, wantValues) {
		t.Errorf("Values = %v, want %v", got, wantValues)
	}
	for _, p := range s.Points() {
		if p.Label == "0" {
			t.Error("first sample should have been evicted")
		}
	}
}

func TestSeriesDefaultCap(t *testing.T) {
	if c := NewSeries(0).Cap(); c != DefaultPoints {
		t.Errorf("Cap = %d, want %d", c, DefaultPoints)
	}
	if c := NewMultiSeries(-1).Cap(); c != DefaultPoints {
		t.Errorf("Cap = %d, want %d", c, DefaultPoints)
	}
}

func TestMultiSeriesLockStep(t *testing.T) {
	const n = 3
	m := NewMultiSeries(n)
	for i := 0; i < 10; i++ {
		m.Append(fmt.Sprint(i), float64(i), float64(-i), float64(2*i))

		labels := m.Labels()
		for _, d := range []int{DatasetMain, DatasetRandom, DatasetCombined} {
			if len(m.Dataset(d)) != len(labels) {
				t.Fatalf("tick %d: dataset %d len=%d, labels len=%d", i, d, len(m.Dataset(d)), len(labels))
			}
		}
	}

	if got, want := m.Labels(), []string{"7", "8", "9"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Labels = %v, want %v", got, want)
	}
	if got, want := m.Dataset(DatasetRandom), []float64{-7, -8, -9}; !reflect.DeepEqual(got, want) {
		t.Errorf("random = %v, want %v", got, want)
	}
	if got, want := m.Dataset(DatasetCombined), []float64{14, 16, 18}; !reflect.DeepEqual(got, want) {
		t.Errorf("combined = %v, want %v", got, want)
	}
}

func TestStoreRecordSampleBound(t *testing.T) {
	const n = 150
	s := NewStore(n)
	for i := 1; i <= n+25; i++ {
		s.RecordSample(fmt.Sprintf("t%d", i), 1, 2, 3)

		snap := s.Snapshot()
		want := i
		if want > n {
			want = n
		}
		for name, got := range map[string]int{
			"main":     len(snap.Main),
			"random":   len(snap.Random),
			"combined": len(snap.Combined),
			"compare":  len(snap.Compare),
		} {
			if got != want {
				t.Fatalf("call %d: %s len=%d, want %d", i, name, got, want)
			}
		}
	}
}

func TestStoreFIFOAcrossWindows(t *testing.T) {
	const n = 3
	s := NewStore(n)
	for i := 0; i <= n; i++ {
		s.RecordSample(fmt.Sprint(i), float64(i), float64(10+i), float64(20+i))
	}

	snap := s.Snapshot()
	wantMain := []Point{{"1", 1}, {"2", 2}, {"3", 3}}
	if !reflect.DeepEqual(snap.Main, wantMain) {
		t.Errorf("Main = %v, want %v", snap.Main, wantMain)
	}
	wantRandom := []Point{{"1", 11}, {"2", 12}, {"3", 13}}
	if !reflect.DeepEqual(snap.Random, wantRandom) {
		t.Errorf("Random = %v, want %v", snap.Random, wantRandom)
	}
	if snap.Compare[0].Label != "1" || snap.Compare[2].Combined != 23 {
		t.Errorf("Compare = %+v", snap.Compare)
	}
}

func TestStoreClear(t *testing.T) {
	s := NewStore(4)
	for i := 0; i < 6; i++ {
		s.RecordSample(fmt.Sprint(i), 1, 2, 3)
	}
	s.Clear()

	snap := s.Snapshot()
	if len(snap.Main)+len(snap.Random)+len(snap.Combined)+len(snap.Compare) != 0 {
		t.Fatalf("expected empty windows after Clear, got %+v", snap)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d after Clear", s.Len())
	}

	// Behaves like a fresh store afterwards.
	s.RecordSample("a", 1, 2, 3)
	snap = s.Snapshot()
	if len(snap.Main) != 1 || snap.Main[0].Label != "a" {
		t.Errorf("Main after Clear+Record = %v", snap.Main)
	}
}

type recordingRenderer struct {
	mu      sync.Mutex
	appends map[SeriesID][]Point
	clears  []SeriesID
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{appends: make(map[SeriesID][]Point)}
}

func (r *recordingRenderer) Append(id SeriesID, label string, value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appends[id] = append(r.appends[id], Point{label, value})
}

func (r *recordingRenderer) Clear(id SeriesID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clears = append(r.clears, id)
}

func TestStoreNotifiesRenderer(t *testing.T) {
	s := NewStore(2)
	r := newRecordingRenderer()
	s.SetRenderer(r)

	s.RecordSample("t0", 1, 2, 3)

	want := map[SeriesID]float64{
		SeriesMain: 1, SeriesRandom: 2, SeriesCombined: 3,
		SeriesCompareMain: 1, SeriesCompareRandom: 2, SeriesCompareCombined: 3,
	}
	for id, v := range want {
		got := r.appends[id]
		if len(got) != 1 || got[0] != (Point{"t0", v}) {
			t.Errorf("%s: appends = %v", id, got)
		}
	}

	s.Clear()
	if !reflect.DeepEqual(r.clears, AllSeries) {
		t.Errorf("clears = %v, want %v", r.clears, AllSeries)
	}
}

// snapshotRenderer takes a snapshot from inside the callback; this would
// deadlock if the store called the renderer while holding its lock.
type snapshotRenderer struct {
	store *Store
	seen  int
}

func (r *snapshotRenderer) Append(SeriesID, string, float64) { r.seen = r.store.Len() }
func (r *snapshotRenderer) Clear(SeriesID)                   { r.seen = r.store.Len() }

func TestStoreRendererMayReenter(t *testing.T) {
	s := NewStore(4)
	r := &snapshotRenderer{store: s}
	s.SetRenderer(r)

	s.RecordSample("a", 0, 0, 0)
	if r.seen != 1 {
		t.Errorf("renderer saw Len=%d, want 1", r.seen)
	}
}

func TestStoreConcurrentSnapshot(t *testing.T) {
	s := NewStore(32)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			s.RecordSample(fmt.Sprint(i), 1, 2, 3)
		}
	}()

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				snap := s.Snapshot()
				if len(snap.Main) != len(snap.Compare) {
					t.Errorf("snapshot lengths diverged: %d vs %d", len(snap.Main), len(snap.Compare))
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestSeriesIDString(t *testing.T) {
	if SeriesCompareRandom.String() != "compare.random" {
		t.Errorf("got %q", SeriesCompareRandom.String())
	}
	if SeriesID(99).String() != "unknown" {
		t.Errorf("got %q", SeriesID(99).String())
	}
}
