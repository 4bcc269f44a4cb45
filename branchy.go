// Package branchy implements a small four-way decision function along with
// the plumbing needed to drive it from symbolic inputs.
//
// The function is intentionally shaped for path exploration: two nested
// comparisons split the input space into four paths, and callers add one
// more branch point by checking the result against Threshold.
package branchy

import "fmt"

// A Branch identifies which of the four paths through Process was taken.
type Branch int

const (
	Branch1 Branch = iota + 1 // x > 100 and y < 50
	Branch2                   // x > 100 and y >= 50
	Branch3                   // x <= 100 and y > 200
	Branch4                   // x <= 100 and y <= 200
)

// Threshold is the result value above which a result counts as large.
const Threshold = 500

func (b Branch) String() string {
	switch b {
	case Branch1, Branch2, Branch3, Branch4:
		return fmt.Sprintf("path %d", int(b))
	}
	return fmt.Sprintf("Branch(%d)", int(b))
}

// Condition returns the condition on x and y that selects b.
func (b Branch) Condition() string {
	switch b {
	case Branch1:
		return "x > 100 and y < 50"
	case Branch2:
		return "x > 100 and y >= 50"
	case Branch3:
		return "x <= 100 and y > 200"
	case Branch4:
		return "x <= 100 and y <= 200"
	}
	return "unknown"
}

// Classify reports which branch Process takes for (x, y).
func Classify(x, y int32) Branch {
	b, _ := Decide(x, y)
	return b
}

// Decide selects the branch for (x, y) and computes its result.
// Arithmetic wraps on overflow.
func Decide(x, y int32) (Branch, int32) {
	if x > 100 {
		if y < 50 {
			return Branch1, x + y
		}
		return Branch2, x - y
	}
	if y > 200 {
		return Branch3, x * 2
	}
	return Branch4, y * 2
}

// Process is Decide without the branch label.
func Process(x, y int32) int32 {
	_, r := Decide(x, y)
	return r
}

// LargeResult reports whether r exceeds Threshold.
func LargeResult(r int32) bool { return r > Threshold }
