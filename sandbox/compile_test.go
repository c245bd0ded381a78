package sandbox

import (
	"strings"
	"testing"
)

func TestCompile_CachesIdenticalSource(t *testing.T) {
	src := `function move(state) { return 0; }`

	p1, err := compile(src)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	p2, err := compile(src)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if p1 != p2 {
		t.Error("compile should return the cached *goja.Program for identical source")
	}
}

func TestCompile_RejectsOversizedProgram(t *testing.T) {
	src := strings.Repeat("a", maxProgramChars+1)
	if _, err := compile(src); err == nil {
		t.Error("expected an error for a program exceeding the character limit")
	}
}

func TestPrecompile_ReportsDuration(t *testing.T) {
	dur, err := Precompile(`function move(state) { return 0; }`)
	if err != nil {
		t.Fatalf("Precompile: %v", err)
	}
	if dur < 0 {
		t.Error("Precompile should report a non-negative duration")
	}
}

func TestPrecompile_PropagatesCompileError(t *testing.T) {
	_, err := Precompile(`function move(state) { this is not valid js`)
	if err == nil {
		t.Error("expected a compile error for invalid JS source")
	}
}
