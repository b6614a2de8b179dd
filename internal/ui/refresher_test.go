package ui

import (
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/sigscope/internal/eventlog"
	"github.com/abelbrown/sigscope/internal/window"
)

type msgRecorder struct {
	mu   sync.Mutex
	msgs []tea.Msg
	got  chan struct{}
}

func newMsgRecorder() *msgRecorder {
	return &msgRecorder{got: make(chan struct{}, 16)}
}

func (r *msgRecorder) send(m tea.Msg) {
	r.mu.Lock()
	r.msgs = append(r.msgs, m)
	r.mu.Unlock()
	r.got <- struct{}{}
}

func (r *msgRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

func TestRefresherCoalescesUntilDone(t *testing.T) {
	rec := newMsgRecorder()
	r := NewRefresher(rec.send, 0)

	r.Request()
	r.Request()
	r.Append(window.SeriesMain, "12:00:00", 1)
	if n := rec.count(); n != 1 {
		t.Fatalf("sent %d redraws before Done, want 1", n)
	}
	if !r.Pending() {
		t.Error("Pending should be true until Done")
	}

	r.Done()
	r.Clear(window.SeriesMain)
	if n := rec.count(); n != 2 {
		t.Errorf("sent %d redraws after Done, want 2", n)
	}
}

func TestRefresherThrottles(t *testing.T) {
	rec := newMsgRecorder()
	r := NewRefresher(rec.send, 20)

	r.Request()
	<-rec.got
	r.Done()

	start := time.Now()
	r.Request()
	select {
	case <-rec.got:
	case <-time.After(2 * time.Second):
		t.Fatal("throttled redraw never arrived")
	}
	// 20 fps spaces frames ~50ms apart; allow scheduler slack.
	if elapsed := time.Since(start); elapsed < 25*time.Millisecond {
		t.Errorf("second redraw after %v, expected throttling", elapsed)
	}
}

func TestStoreDrivesRefresher(t *testing.T) {
	rec := newMsgRecorder()
	r := NewRefresher(rec.send, 0)
	store := window.NewStore(5)
	store.SetRenderer(r)

	store.RecordSample("12:00:00", 1, 2, 3)
	if rec.count() != 1 {
		t.Fatalf("RecordSample sent %d redraws", rec.count())
	}
	if _, ok := rec.msgs[0].(Redraw); !ok {
		t.Errorf("sent %T, want Redraw", rec.msgs[0])
	}
}

func TestLogSinkAppendsAndRefreshes(t *testing.T) {
	rec := newMsgRecorder()
	r := NewRefresher(rec.send, 0)
	book := eventlog.NewBook(10)
	sink := r.Sink(book)

	sink.Append("Main signal generation started", eventlog.SeveritySuccess)

	if book.Len() != 1 {
		t.Fatalf("book Len = %d", book.Len())
	}
	if rec.count() != 1 {
		t.Errorf("sent %d redraws", rec.count())
	}
}
