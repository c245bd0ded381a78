package sandbox

import (
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"
)

// maxProgramChars is the spec §4.2 input size limit.
const maxProgramChars = 10000

var (
	compileCacheMu sync.RWMutex
	compileCache   = make(map[string]*goja.Program)
)

// compile returns a cached *goja.Program for the exact given source,
// compiling (and scrubbing + prepending the helper prelude) on first
// use. Keyed by exact source text so resubmitting identical code —
// common when many participants copy-paste a starter script — is
// amortized across the whole pool (spec §4.2, grounded on the
// teacher's per-worker ORT session reuse in executor/inference/onnx.go,
// generalized here to a pool-wide cache since compiling JS is cheap
// enough to share rather than duplicate per worker).
func compile(source string) (*goja.Program, error) {
	if len(source) > maxProgramChars {
		return nil, fmt.Errorf("program exceeds %d characters", maxProgramChars)
	}

	compileCacheMu.RLock()
	prog, ok := compileCache[source]
	compileCacheMu.RUnlock()
	if ok {
		return prog, nil
	}

	full := prelude + "\n" + Scrub(source)
	prog, err := goja.Compile("move.js", full, false)
	if err != nil {
		return nil, err
	}

	compileCacheMu.Lock()
	compileCache[source] = prog
	compileCacheMu.Unlock()

	return prog, nil
}

// Precompile warms the compile cache for source ahead of its first
// dispatch and reports how long compilation took — used by the
// scheduler's register/submit handlers to populate a Submission's
// WallClockMs.
func Precompile(source string) (time.Duration, error) {
	start := time.Now()
	_, err := compile(source)
	return time.Since(start), err
}
