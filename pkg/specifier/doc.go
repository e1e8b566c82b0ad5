// Package specifier parses and evaluates Python version specifiers as
// published in a package's requires_python field (for example ">=3.8,<4").
//
// A Set is a conjunction of clauses. Clauses are evaluated against a
// runtime release line identified by major and minor number only, since a
// target interpreter is named as "3.13" rather than a specific patch.
//
// Clause semantics:
//   - Major-only clauses (">=3", "<4") compare the target major alone.
//   - Major.minor clauses compare the (major, minor) tuple numerically.
//   - Clauses with a patch segment or deeper hold when some patch release
//     of the target minor series satisfies them.
//   - "~=A.B.C" expands to ">=A.B.C" and "==A.B.*".
//   - "==" and "!=" accept a trailing ".*" wildcard.
//   - "===" compares the literal string "MAJOR.MINOR".
//   - A pre-release or dev version (3.13.0rc1) sorts below the final
//     releases of its series, and "==" on one never holds.
package specifier
