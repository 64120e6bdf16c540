package corpus

import (
	"reflect"
	"testing"

	"loom/internal/transcript"
)

func TestRegistryNames(t *testing.T) {
	want := []string{"ami", "chime6", "ru_open_stt", "safet"}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for _, name := range want {
		if _, ok := Get(name); !ok {
			t.Fatalf("Get(%q) missing", name)
		}
	}
	if _, ok := Get("librispeech"); ok {
		t.Fatal("Get returned a definition for an unregistered corpus")
	}
}

func TestSchemeValidateRejectsOverlap(t *testing.T) {
	s := Scheme{
		"train": {"ES2002a", "ES2003a"},
		"dev":   {"ES2003a"},
	}
	if err := s.Validate(); err == nil {
		t.Fatal("expected overlap error")
	}
}

func TestSchemeSplitFor(t *testing.T) {
	s := Scheme{"train": {"a", "b"}, "test": {"c"}}
	if split, ok := s.SplitFor("c"); !ok || split != "test" {
		t.Fatalf("SplitFor(c) = %q, %v", split, ok)
	}
	if _, ok := s.SplitFor("z"); ok {
		t.Fatal("SplitFor matched an unassigned session")
	}
}

func TestAMISchemeAssignments(t *testing.T) {
	def, _ := Get("ami")
	scheme, ok := def.Schemes["full-corpus-asr"]
	if !ok {
		t.Fatal("full-corpus-asr scheme missing")
	}
	if err := scheme.Validate(); err != nil {
		t.Fatalf("scheme invalid: %v", err)
	}
	cases := map[string]string{
		"ES2002a": "train",
		"ES2011c": "dev",
		"IB4010":  "dev",
		"EN2002d": "test",
		"IS1009b": "test",
	}
	for meeting, want := range cases {
		got, ok := scheme.SplitFor(meeting)
		if !ok || got != want {
			t.Errorf("SplitFor(%s) = %q, %v, want %q", meeting, got, ok, want)
		}
	}
}

func TestAMISessionKey(t *testing.T) {
	if got := amiSessionKey("ES2002a.Headset-2"); got != "ES2002a" {
		t.Fatalf("amiSessionKey = %q", got)
	}
	if got := amiSessionKey("ES2002a"); got != "ES2002a" {
		t.Fatalf("amiSessionKey without suffix = %q", got)
	}
}

func TestExpandAMI(t *testing.T) {
	rec := transcript.Record{RecordingKey: "ES2002a", Speaker: "C"}
	if got := expandAMI(rec, Options{}); !reflect.DeepEqual(got, []string{"ES2002a.Headset-2"}) {
		t.Fatalf("expandAMI = %v", got)
	}
	rec.Speaker = "Z"
	if got := expandAMI(rec, Options{}); got != nil {
		t.Fatalf("expandAMI for unknown agent = %v, want nil", got)
	}
}

func TestExpandChimeWorn(t *testing.T) {
	rec := transcript.Record{RecordingKey: "S02", Speaker: "P05"}
	got := expandChime(rec, Options{Mic: "worn"})
	if !reflect.DeepEqual(got, []string{"S02_P05"}) {
		t.Fatalf("worn candidates = %v", got)
	}
}

func TestExpandChimeArrayFanOut(t *testing.T) {
	rec := transcript.Record{RecordingKey: "S02", Speaker: "P05"}
	got := expandChime(rec, Options{Mic: "u03"})
	want := []string{"S02_U03.CH1", "S02_U03.CH2", "S02_U03.CH3", "S02_U03.CH4"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("array candidates = %v, want %v", got, want)
	}
}

func TestExpandChimeRefUsesTag(t *testing.T) {
	rec := transcript.Record{
		RecordingKey: "S02",
		Speaker:      "P05",
		Tags:         map[string]string{"ref": "U02"},
	}
	got := expandChime(rec, Options{Mic: "ref"})
	want := []string{"S02_U02.CH1", "S02_U02.CH2", "S02_U02.CH3", "S02_U02.CH4"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ref candidates = %v, want %v", got, want)
	}
	rec.Tags = nil
	if got := expandChime(rec, Options{Mic: "ref"}); got != nil {
		t.Fatalf("ref without tag = %v, want nil", got)
	}
}

func TestExpandChimeSessionRestrictions(t *testing.T) {
	rec := transcript.Record{RecordingKey: "S05", Speaker: "P05"}
	if got := expandChime(rec, Options{Mic: "u03"}); got != nil {
		t.Fatalf("restricted array produced candidates: %v", got)
	}
	if got := expandChime(rec, Options{Mic: "u05"}); len(got) != 4 {
		t.Fatalf("allowed array candidates = %v", got)
	}
}

func TestExpandChimeExcludedSession(t *testing.T) {
	rec := transcript.Record{RecordingKey: "S12", Speaker: "P21"}
	if got := expandChime(rec, Options{Mic: "worn"}); got != nil {
		t.Fatalf("excluded session produced candidates: %v", got)
	}
}

func TestDefinitionValidateIncomplete(t *testing.T) {
	def := Definition{Name: "x"}
	if err := def.Validate(); err == nil {
		t.Fatal("expected incomplete-definition error")
	}
}
