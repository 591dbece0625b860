package scheme

import "fmt"

// assertContract panics when cond is false. Per §7 of the design,
// out-of-range levels, parent-of-root and out-of-range face indices are
// contract violations (programmer errors), not recoverable runtime
// errors: the core does not try to continue past one.
func assertContract(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("scheme: contract violation: "+format, args...))
	}
}
