package util

import (
	"bytes"
	"strings"
	"testing"
)

func TestAnswersShareOneReader(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("hello\n\ny\n"), &out)

	if got := p.String("Project name", "program"); got != "hello" {
		t.Errorf("got %q", got)
	}
	if got := p.String("Main file", "main.bas"); got != "main.bas" {
		t.Errorf("empty answer gave %q, want the default", got)
	}
	if !p.YN("Continue?", false) {
		t.Error("y was read as no")
	}
	if !strings.Contains(out.String(), "Continue? (y/N): ") {
		t.Errorf("unexpected prompt output %q", out.String())
	}
}

func TestEndOfInputTakesDefault(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{})
	if !p.YN("Use defaults?", true) {
		t.Error("end of input should give the default")
	}
	if got := p.String("Name", "x"); got != "x" {
		t.Errorf("got %q", got)
	}
}

func TestChoiceRepeats(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("wasm\nLLVM\n"), &out)
	if got := p.Choice("Target", "c", "c", "llvm"); got != "llvm" {
		t.Errorf("got %q, want llvm", got)
	}
	if !strings.Contains(out.String(), `"wasm" is not one of c, llvm`) {
		t.Errorf("rejected answer not reported: %q", out.String())
	}
}
