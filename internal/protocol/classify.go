package protocol

import (
	"math"
	"strconv"
	"strings"
)

// Wire markers. Rules 2-4 match by substring, so their order matters.
const (
	samplePrefix     = "SIG:"
	markerStart      = "SIGNAL_START"
	markerStop       = "SIGNAL_STOP"
	markerAmplitude  = "AMPLITUDE_CHANGED"
	markerRandom     = "RAND"
	sampleFieldCount = 5
)

// Classify maps a trimmed, non-empty line to exactly one Event. The first
// matching rule wins:
//
//  1. "SIG:" prefix with five float fields -> SignalSample
//  2. contains SIGNAL_START              -> GeneratorStarted
//  3. contains SIGNAL_STOP               -> GeneratorStopped
//  4. contains AMPLITUDE_CHANGED         -> AmplitudeChanged
//  5. anything else                      -> Unclassified
//
// Malformed lines degrade to Unclassified; Classify never fails. Callers must
// drop empty lines before calling it.
func Classify(line string) Event {
	if strings.HasPrefix(line, samplePrefix) {
		if s, ok := parseSample(line[len(samplePrefix):]); ok {
			return s
		}
		return Unclassified{Text: line, Malformed: true}
	}

	switch {
	case strings.Contains(line, markerStart):
		return GeneratorStarted{Source: sourceOf(line)}
	case strings.Contains(line, markerStop):
		return GeneratorStopped{Source: sourceOf(line)}
	case strings.Contains(line, markerAmplitude):
		fields := strings.Split(line, ":")
		if len(fields) < 2 {
			return Unclassified{Text: line}
		}
		return AmplitudeChanged{Level: fields[1]}
	}

	return Unclassified{Text: line}
}

func sourceOf(line string) Source {
	if strings.Contains(line, markerRandom) {
		return SourceRandom
	}
	return SourceMain
}

// parseSample parses the comma-separated payload of a SIG: line.
// All five fields must parse to finite numbers; a partial sample is never
// returned. Out-of-range values ("1e400"), "Inf" and "NaN" are failures.
func parseSample(payload string) (SignalSample, bool) {
	fields := strings.Split(payload, ",")
	if len(fields) != sampleFieldCount {
		return SignalSample{}, false
	}

	var v [sampleFieldCount]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil || math.IsInf(x, 0) || math.IsNaN(x) {
			return SignalSample{}, false
		}
		v[i] = x
	}

	return SignalSample{
		Main:      v[0],
		Random:    v[1],
		Combined:  v[2],
		Amplitude: v[3],
		Extra:     v[4],
	}, true
}
