// Package protocol classifies lines of the signal generator's text protocol.
//
// The device emits one message per line:
//
//	SIG:<main>,<random>,<combined>,<amplitude>,<extra>   sample tick
//	...SIGNAL_START...   (RAND anywhere selects the random generator)
//	...SIGNAL_STOP...
//	...AMPLITUDE_CHANGED:<level>...
//
// Anything else is passed through as Unclassified text.
package protocol

// Source identifies which generator a start/stop notification refers to.
type Source int

const (
	SourceMain Source = iota
	SourceRandom
)

func (s Source) String() string {
	if s == SourceRandom {
		return "random"
	}
	return "main"
}

// Event is one classified line. The set of implementations is closed;
// switch on the concrete type.
type Event interface {
	event()
}

// SignalSample is a single tick. Amplitude and Extra are carried through
// untouched; only their presence as numbers is required.
type SignalSample struct {
	Main      float64
	Random    float64
	Combined  float64
	Amplitude float64
	Extra     float64
}

// GeneratorStarted reports that a generator began producing signal.
type GeneratorStarted struct {
	Source Source
}

// GeneratorStopped reports that a generator stopped.
type GeneratorStopped struct {
	Source Source
}

// AmplitudeChanged carries the raw level token; it is not validated as a number.
type AmplitudeChanged struct {
	Level string
}

// Unclassified is any non-empty line that matched no other rule.
// Malformed is set when the line carried the sample prefix but not a valid
// five-field payload; such lines are dropped from the event log.
type Unclassified struct {
	Text      string
	Malformed bool
}

func (SignalSample) event()     {}
func (GeneratorStarted) event() {}
func (GeneratorStopped) event() {}
func (AmplitudeChanged) event() {}
func (Unclassified) event()     {}

// Kind returns a short stable name for an event, used for metrics labels
// and trace records.
func Kind(e Event) string {
	switch e := e.(type) {
	case Unclassified:
		if e.Malformed {
			return "malformed"
		}
		return "unclassified"
	case SignalSample:
		return "sample"
	case GeneratorStarted:
		return "start"
	case GeneratorStopped:
		return "stop"
	case AmplitudeChanged:
		return "amplitude"
	default:
		return "unclassified"
	}
}
