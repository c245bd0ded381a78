package sandbox

import (
	"math"
	"time"

	"github.com/dop251/goja"

	"github.com/brensch/snekarena/rules"
)

// worker is one isolated executor: a single goja.Runtime. Exactly one
// call is ever in flight on a given
// worker at a time — the pool enforces that via its slot semaphore.
//
// Grounded on executor/inference/onnx.go's OnnxClient: one long-lived
// resource per worker, replaced wholesale (never partially reset) the
// instant it faults.
type worker struct {
	vm *goja.Runtime
}

func newWorker() *worker {
	w := &worker{}
	w.reset()
	return w
}

func (w *worker) reset() {
	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	w.vm = vm
}

// run compiles (from cache) and executes `move(state)` for one AI
// input, enforcing the hard wall-clock deadline via goja's cooperative
// Interrupt mechanism. On timeout the call returns immediately with
// {nil, "AI timed out"} and reports that the worker must be replaced —
// the abandoned goroutine may still be unwinding via the interrupt but
// the caller never waits on it (spec §4.2 "Crash/timeout semantics").
func (w *worker) run(source string, input Input, timeout time.Duration) (dec rules.Decision, faulted bool) {
	prog, err := compile(source)
	if err != nil {
		return rules.Decision{Err: err.Error()}, false
	}

	vm := w.vm
	done := make(chan rules.Decision, 1)

	go func() {
		done <- callMove(vm, prog, input)
	}()

	select {
	case dec := <-done:
		return dec, dec.Err != "" && isFault(dec.Err)
	case <-time.After(timeout):
		vm.Interrupt("AI timed out")
		return rules.Decision{Err: "AI timed out"}, true
	}
}

// isFault distinguishes ordinary participant errors (bad return value,
// thrown exception) from the kind that leaves the runtime's internal
// state unknown and therefore worth discarding proactively. In
// practice we replace on every fault per spec §4.2, but the bit is
// kept explicit here rather than inlined at call sites.
func isFault(_ string) bool {
	return true
}

func callMove(vm *goja.Runtime, prog *goja.Program, input Input) (dec rules.Decision) {
	defer func() {
		if r := recover(); r != nil {
			dec = rules.Decision{Err: "AI crashed"}
		}
	}()

	if _, err := vm.RunProgram(prog); err != nil {
		return rules.Decision{Err: err.Error()}
	}

	moveFn, ok := goja.AssertFunction(vm.Get("move"))
	if !ok {
		return rules.Decision{Err: "no move function defined"}
	}

	res, err := moveFn(goja.Undefined(), vm.ToValue(input))
	if err != nil {
		return rules.Decision{Err: err.Error()}
	}

	return coerce(res, input)
}

// coerce implements spec §4.2's return-value coercion: a finite number
// is an angle; an object with numeric {x,y} is converted to an angle
// via atan2 relative to the snake's own head; null/undefined means "no
// steering this tick"; anything else is an error.
func coerce(res goja.Value, input Input) rules.Decision {
	if res == nil || goja.IsNull(res) || goja.IsUndefined(res) {
		return rules.Decision{}
	}

	exported := res.Export()

	switch v := exported.(type) {
	case int64:
		return numericDecision(float64(v))
	case float64:
		return numericDecision(v)
	case map[string]interface{}:
		x, xok := toFloat(v["x"])
		y, yok := toFloat(v["y"])
		if xok && yok {
			angle := math.Atan2(y-input.You.Y, x-input.You.X)
			return rules.Decision{TargetAngle: &angle}
		}
	}

	return rules.Decision{Err: "Invalid return"}
}

func numericDecision(f float64) rules.Decision {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return rules.Decision{Err: "Invalid return"}
	}
	return rules.Decision{TargetAngle: &f}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
