// Package compat decides whether a package supports a target Python version.
//
// The evaluator is pure: it takes already-fetched Metadata and a Target and
// returns an immutable Result. It never performs I/O, logs, or shares state,
// so callers may evaluate packages in any order or in parallel.
//
// Verdict rules (non-strict):
//   - A valid requires_python specifier decides alone: supported when the
//     target satisfies every clause, incompatible otherwise.
//   - A malformed specifier yields unknown without consulting classifiers.
//   - Without a specifier, a classifier naming the target minor or the bare
//     target major yields supported. Anything else is unknown.
//
// In strict mode a supported verdict needs both signals to agree. Only an
// explicit exclusion by the specifier produces incompatible.
package compat
