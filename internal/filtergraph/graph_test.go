package filtergraph

import (
	"errors"
	"testing"
)

func ref(label string) StreamRef { return StreamRef{Label: label} }

func TestValidate_TerminalUnset(t *testing.T) {
	g := &Graph{}
	if !errors.Is(g.Validate(), ErrTerminalUnset) {
		t.Error("empty graph must fail with ErrTerminalUnset")
	}
}

func TestValidate_ConsumeBeforeProduce(t *testing.T) {
	g := &Graph{
		Stages: []Stage{
			{Name: OpRetime, Inputs: []StreamRef{ref("ghost")}, Outputs: []StreamRef{ref("v0")}},
		},
		FinalVideo: ref("v0"),
		FinalAudio: SourceRef(1, "a"),
	}
	if !errors.Is(g.Validate(), ErrLabelUndefined) {
		t.Errorf("got %v, want ErrLabelUndefined", g.Validate())
	}
}

func TestValidate_DoubleProduce(t *testing.T) {
	g := &Graph{
		Stages: []Stage{
			{Name: OpStandardize, Inputs: []StreamRef{SourceRef(0, "v")}, Outputs: []StreamRef{ref("v0")}},
			{Name: OpStandardize, Inputs: []StreamRef{SourceRef(1, "v")}, Outputs: []StreamRef{ref("v0")}},
		},
		FinalVideo: ref("v0"),
		FinalAudio: SourceRef(2, "a"),
	}
	if !errors.Is(g.Validate(), ErrLabelRedefined) {
		t.Errorf("got %v, want ErrLabelRedefined", g.Validate())
	}
}

func TestValidate_DoubleConsume(t *testing.T) {
	g := &Graph{
		Stages: []Stage{
			{Name: OpStandardize, Inputs: []StreamRef{SourceRef(0, "v")}, Outputs: []StreamRef{ref("v0")}},
			{Name: OpCaption, Inputs: []StreamRef{ref("v0")}, Outputs: []StreamRef{ref("v1")}},
			{Name: OpCaption, Inputs: []StreamRef{ref("v0")}, Outputs: []StreamRef{ref("v2")}},
		},
		FinalVideo: ref("v2"),
		FinalAudio: SourceRef(1, "a"),
	}
	if !errors.Is(g.Validate(), ErrLabelMultiUse) {
		t.Errorf("got %v, want ErrLabelMultiUse", g.Validate())
	}
}

func TestValidate_DanglingLabel(t *testing.T) {
	g := &Graph{
		Stages: []Stage{
			{Name: OpStandardize, Inputs: []StreamRef{SourceRef(0, "v")}, Outputs: []StreamRef{ref("v0")}},
			{Name: OpStandardize, Inputs: []StreamRef{SourceRef(1, "v")}, Outputs: []StreamRef{ref("v1")}},
		},
		FinalVideo: ref("v0"),
		FinalAudio: SourceRef(2, "a"),
	}
	if !errors.Is(g.Validate(), ErrLabelUnconsumed) {
		t.Errorf("got %v, want ErrLabelUnconsumed", g.Validate())
	}
}

func TestValidate_TerminalConsumedByStage(t *testing.T) {
	// A stage already consumed v0, so the output mapping cannot.
	g := &Graph{
		Stages: []Stage{
			{Name: OpStandardize, Inputs: []StreamRef{SourceRef(0, "v")}, Outputs: []StreamRef{ref("v0")}},
			{Name: OpCaption, Inputs: []StreamRef{ref("v0")}, Outputs: []StreamRef{ref("v1")}},
		},
		FinalVideo: ref("v0"),
		FinalAudio: SourceRef(1, "a"),
	}
	err := g.Validate()
	if !errors.Is(err, ErrLabelMultiUse) && !errors.Is(err, ErrLabelUnconsumed) {
		t.Errorf("got %v, want a consumption violation", err)
	}
}

func TestStreamRefForms(t *testing.T) {
	src := SourceRef(2, "a")
	if src.Bracket() != "[2:a]" || src.Map() != "2:a" {
		t.Errorf("source forms: bracket=%q map=%q", src.Bracket(), src.Map())
	}
	lbl := ref("cap3")
	if lbl.Bracket() != "[cap3]" || lbl.Map() != "[cap3]" {
		t.Errorf("label forms: bracket=%q map=%q", lbl.Bracket(), lbl.Map())
	}
}
