package protocol

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Event
	}{
		{"sample", "SIG:1.0,2.0,3.0,0.5,0.0", SignalSample{1.0, 2.0, 3.0, 0.5, 0.0}},
		{"sample exponent", "SIG:1e-3,-2.5E2,3,4,5", SignalSample{0.001, -250, 3, 4, 5}},
		{"sample spaced fields", "SIG: 1, 2 ,3,4,5", SignalSample{1, 2, 3, 4, 5}},
		{"too few fields", "SIG:1.0,2.0", Unclassified{Text: "SIG:1.0,2.0", Malformed: true}},
		{"too many fields", "SIG:1,2,3,4,5,6", Unclassified{Text: "SIG:1,2,3,4,5,6", Malformed: true}},
		{"bad number", "SIG:1,2,x,4,5", Unclassified{Text: "SIG:1,2,x,4,5", Malformed: true}},
		{"empty field", "SIG:1,,3,4,5", Unclassified{Text: "SIG:1,,3,4,5", Malformed: true}},
		{"out of range", "SIG:1e400,2,3,4,5", Unclassified{Text: "SIG:1e400,2,3,4,5", Malformed: true}},
		{"negative out of range", "SIG:1,-1e400,3,4,5", Unclassified{Text: "SIG:1,-1e400,3,4,5", Malformed: true}},
		{"infinity literal", "SIG:1,2,Inf,4,5", Unclassified{Text: "SIG:1,2,Inf,4,5", Malformed: true}},
		{"nan literal", "SIG:1,2,3,NaN,5", Unclassified{Text: "SIG:1,2,3,NaN,5", Malformed: true}},
		{"underflow rounds to zero", "SIG:1e-400,2,3,4,5", SignalSample{0, 2, 3, 4, 5}},
		{"start main", "SIGNAL_START", GeneratorStarted{Source: SourceMain}},
		{"start random", "RANDOM_SIGNAL_START_EVENT", GeneratorStarted{Source: SourceRandom}},
		{"stop main", "SIGNAL_STOP", GeneratorStopped{Source: SourceMain}},
		{"stop random", "RAND_SIGNAL_STOP", GeneratorStopped{Source: SourceRandom}},
		{"amplitude", "AMPLITUDE_CHANGED:7", AmplitudeChanged{Level: "7"}},
		{"amplitude non numeric", "AMPLITUDE_CHANGED:high:extra", AmplitudeChanged{Level: "high"}},
		{"amplitude missing level", "AMPLITUDE_CHANGED", Unclassified{Text: "AMPLITUDE_CHANGED"}},
		{"amplitude empty level", "AMPLITUDE_CHANGED:", AmplitudeChanged{Level: ""}},
		{"fallback", "hello world", Unclassified{Text: "hello world"}},
		{"lowercase prefix is not a sample", "sig:1,2,3,4,5", Unclassified{Text: "sig:1,2,3,4,5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.line)
			if got != tt.want {
				t.Errorf("Classify(%q) = %#v, want %#v", tt.line, got, tt.want)
			}
		})
	}
}

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		line string
		want Event
	}{
		// Sample prefix is checked first even if the payload is garbage.
		{"SIG:SIGNAL_START", Unclassified{Text: "SIG:SIGNAL_START", Malformed: true}},
		// Start wins over stop and amplitude.
		{"SIGNAL_START SIGNAL_STOP", GeneratorStarted{Source: SourceMain}},
		{"SIGNAL_STOP AMPLITUDE_CHANGED:3", GeneratorStopped{Source: SourceMain}},
		{"AMPLITUDE_CHANGED:RAND", AmplitudeChanged{Level: "RAND"}},
		// SIGNAL_START not at the start still matches by substring.
		{"x SIGNAL_START_RAND", GeneratorStarted{Source: SourceRandom}},
	}

	for _, tt := range tests {
		if got := Classify(tt.line); got != tt.want {
			t.Errorf("Classify(%q) = %#v, want %#v", tt.line, got, tt.want)
		}
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{SignalSample{}, "sample"},
		{GeneratorStarted{}, "start"},
		{GeneratorStopped{}, "stop"},
		{AmplitudeChanged{}, "amplitude"},
		{Unclassified{}, "unclassified"},
		{Unclassified{Malformed: true}, "malformed"},
	}
	for _, tt := range tests {
		if got := Kind(tt.ev); got != tt.want {
			t.Errorf("Kind(%T) = %q, want %q", tt.ev, got, tt.want)
		}
	}
}

func TestSourceString(t *testing.T) {
	if SourceMain.String() != "main" || SourceRandom.String() != "random" {
		t.Errorf("unexpected names: %s %s", SourceMain, SourceRandom)
	}
}
