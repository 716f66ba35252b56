// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package evtlist

import (
	"fmt"
	"log"

	"github.com/intuitivelabs/slog"
)

// Log is the package-level logger. Callers may change its level with
// Log.SetLevel (e.g. slog.LDBG for verbose tracing) before using the
// package; the default level is slog.LNOTICE.
var Log slog.Log = slog.New(NAME+": ", log.LstdFlags, slog.LNOTICE)

// DBGon returns true if debug-level logging is enabled, letting callers
// skip building an expensive debug string when it would be discarded.
func DBGon() bool { return Log.DBGon() }

// ERRon returns true if error-level logging is enabled.
func ERRon() bool { return Log.ERRon() }

// WARNon returns true if warning-level logging is enabled.
func WARNon() bool { return Log.WARNon() }

// DBG logs a debug-level trace message.
func DBG(f string, a ...interface{}) { Log.DBG(f, a...) }

// WARN logs a warning-level message (recoverable anomaly).
func WARN(f string, a ...interface{}) { Log.WARN(f, a...) }

// ERR logs an error-level message.
func ERR(f string, a ...interface{}) { Log.ERR(f, a...) }

// BUG logs a bug-level message: an invariant the engine expected to hold
// was found broken. Callers follow BUG with a panic carrying the same
// detail; BUG itself never panics.
func BUG(f string, a ...interface{}) { Log.BUG(f, a...) }

// PANIC logs at bug level and then panics with the formatted message.
// Used at the point an InvariantViolation is first detected; the panic is
// recovered at the boundary of the public Run*/Add/Reschedule entry points and
// turned into a returned *Error{Kind: InvariantViolation}.
func PANIC(f string, a ...interface{}) {
	msg := fmt.Sprintf(f, a...)
	BUG("%s", msg)
	panic(invariantPanic{msg: msg})
}

// panicInvariant is PANIC's sibling for invariant breaches that have a
// named sentinel (see errors.go): it preserves the sentinel through
// recoverInvariant so callers can still errors.Is against it, while the
// logged and returned message keeps the detail a raw PANIC(f, ...) call
// would have produced.
func panicInvariant(sentinel error, f string, a ...interface{}) {
	detail := fmt.Sprintf(f, a...)
	msg := fmt.Sprintf("%s: %s", sentinel, detail)
	BUG("%s", msg)
	panic(invariantPanic{err: sentinel, msg: msg})
}

// invariantPanic is the payload PANIC/panicInvariant panic with.
// recoverInvariant turns it into a returned *Error; any other panic value
// propagates unchanged, since it represents a bug in evtlist itself rather
// than a detected InvariantViolation. err, when set, lets the resulting
// *Error chain be matched with errors.Is against a specific sentinel.
type invariantPanic struct {
	err error
	msg string
}

func (p invariantPanic) Error() string { return p.msg }

func (p invariantPanic) Unwrap() error { return p.err }

// recoverInvariant should be deferred at the top of every public entry
// point that can trigger an internal PANIC (the run loop and the mutating
// schedule operations). It turns an invariantPanic into *errp; any other
// panic value is re-raised unchanged.
func recoverInvariant(op string, errp *error) {
	if r := recover(); r != nil {
		if ip, ok := r.(invariantPanic); ok {
			*errp = invariantViolation(op, ip)
			return
		}
		panic(r)
	}
}
