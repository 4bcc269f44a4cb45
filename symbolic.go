package branchy

import (
	"encoding/binary"
	"fmt"
)

// Names of the symbolic inputs requested by RunSymbolic, in order.
const (
	InputA = "a"
	InputB = "b"
)

// A Driver supplies values for symbolic inputs.
//
// Under a symbolic execution engine, each call marks a fresh unconstrained
// value; the engine decides what it is. Outside of one, the driver picks
// concrete values (from a recorded test case, a fuzzer, and so on).
type Driver interface {
	Int32(name string) int32
}

// RunSymbolic is the instrumented entry point. It requests inputs "a" and
// "b" from d, runs Process on them, and returns the exit status: 1 if the
// result is large (see LargeResult) and 0 otherwise.
func RunSymbolic(d Driver) int {
	a := d.Int32(InputA)
	b := d.Int32(InputB)
	if LargeResult(Process(a, b)) {
		return 1
	}
	return 0
}

// Values is a Driver backed by fixed values. Missing names are zero.
type Values map[string]int32

func (v Values) Int32(name string) int32 { return v[name] }

// Replay is a Driver that supplies inputs from a recorded test case.
//
// Like bufio.Scanner, Replay doesn't fail on each call; a missing or
// malformed object yields zero and the first such problem is reported by
// Err.
type Replay struct {
	kt  *KTest
	err error
}

// NewReplay returns a Replay that reads inputs from kt.
func NewReplay(kt *KTest) *Replay {
	return &Replay{kt: kt}
}

func (r *Replay) Int32(name string) int32 {
	obj, ok := r.kt.Object(name)
	if !ok {
		r.fail(fmt.Errorf("test case has no object %q", name))
		return 0
	}
	if len(obj.Bytes) != 4 {
		r.fail(fmt.Errorf("object %q has %d bytes; want 4", name, len(obj.Bytes)))
		return 0
	}
	return int32(binary.LittleEndian.Uint32(obj.Bytes))
}

func (r *Replay) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Err returns the first error encountered while supplying inputs.
func (r *Replay) Err() error { return r.err }
