package framer

import (
	"reflect"
	"testing"
)

func feedAll(f *Framer, chunks ...[]byte) []string {
	var lines []string
	for _, c := range chunks {
		lines = append(lines, f.Feed(c)...)
	}
	return lines
}

func TestFeedSingleChunk(t *testing.T) {
	f := New()
	got := f.Feed([]byte("SIG:1,2,3,4,5\nSIG:6,7,8,9,10\n"))
	want := []string{"SIG:1,2,3,4,5", "SIG:6,7,8,9,10"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Feed = %q, want %q", got, want)
	}
	if f.Carry() != "" {
		t.Errorf("carry = %q, want empty", f.Carry())
	}
}

func TestFeedByteByByte(t *testing.T) {
	stream := []byte("SIG:1,2,3,4,5\nSIG:6,7,8,9,10\n")
	f := New()

	var chunks [][]byte
	for i := range stream {
		chunks = append(chunks, stream[i:i+1])
	}
	got := feedAll(f, chunks...)
	want := []string{"SIG:1,2,3,4,5", "SIG:6,7,8,9,10"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("byte-by-byte = %q, want %q", got, want)
	}
}

func TestFeedArbitrarySplitsMatchSingleChunk(t *testing.T) {
	stream := []byte("SIGNAL_START\r\nSIG:0.1,-2e-3,3,4,5\n\nAMPLITUDE_CHANGED:7\nпривет мир\ntail")

	whole := New().Feed(stream)

	for split := 1; split <= len(stream); split++ {
		f := New()
		var chunks [][]byte
		for i := 0; i < len(stream); i += split {
			end := i + split
			if end > len(stream) {
				end = len(stream)
			}
			chunks = append(chunks, stream[i:end])
		}
		got := feedAll(f, chunks...)
		if !reflect.DeepEqual(got, whole) {
			t.Fatalf("split=%d: got %q, want %q", split, got, whole)
		}
		if f.Carry() != "tail" {
			t.Fatalf("split=%d: carry = %q, want %q", split, f.Carry(), "tail")
		}
	}
}

func TestFeedNoTerminator(t *testing.T) {
	f := New()
	if lines := f.Feed([]byte("SIG:1,2")); lines != nil {
		t.Errorf("expected no lines, got %q", lines)
	}
	if f.Carry() != "SIG:1,2" {
		t.Errorf("carry = %q", f.Carry())
	}
	lines := f.Feed([]byte(",3,4,5\n"))
	if len(lines) != 1 || lines[0] != "SIG:1,2,3,4,5" {
		t.Errorf("lines = %q", lines)
	}
}

func TestFeedEmptyChunk(t *testing.T) {
	f := New()
	f.Feed([]byte("partial"))
	if lines := f.Feed(nil); lines != nil {
		t.Errorf("empty chunk produced %q", lines)
	}
	if lines := f.Feed([]byte{}); lines != nil {
		t.Errorf("empty chunk produced %q", lines)
	}
	if f.Carry() != "partial" {
		t.Errorf("carry changed to %q", f.Carry())
	}
}

func TestFeedEmptyLinesPassThrough(t *testing.T) {
	// The framer does not filter; dropping empty lines is the caller's job.
	f := New()
	got := f.Feed([]byte("\n\na\n"))
	want := []string{"", "", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFeedInvalidUTF8IsReplaced(t *testing.T) {
	f := New()
	got := f.Feed([]byte{'o', 'k', 0xff, 0xfe, '\n'})
	if len(got) != 1 {
		t.Fatalf("expected 1 line, got %d", len(got))
	}
	if got[0] != "ok��" {
		t.Errorf("got %q", got[0])
	}
}

func TestFeedSplitMultiByteRune(t *testing.T) {
	// "é" is 0xC3 0xA9; split it across two chunks.
	f := New()
	if lines := f.Feed([]byte{'c', 'a', 'f', 0xC3}); lines != nil {
		t.Fatalf("unexpected lines %q", lines)
	}
	lines := f.Feed([]byte{0xA9, '\n'})
	if len(lines) != 1 || lines[0] != "café" {
		t.Errorf("lines = %q, want [café]", lines)
	}
}

func TestResetDiscardsCarry(t *testing.T) {
	f := New()
	f.Feed([]byte("SIG:1,2,3"))
	f.Feed([]byte{0xC3})
	f.Reset()

	if f.Carry() != "" {
		t.Errorf("carry = %q after Reset", f.Carry())
	}
	lines := f.Feed([]byte("next\n"))
	if len(lines) != 1 || lines[0] != "next" {
		t.Errorf("lines after Reset = %q", lines)
	}
}
