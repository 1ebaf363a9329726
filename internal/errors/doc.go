// Package errors provides coded errors for the tnet command line.
//
// Each failure the CLI can report to an operator has a stable code and a
// registered template:
//
//	return errors.New("T201").Wrap(err).WithDetailf("upstream %s", addr)
//
// Codes are grouped by range:
//
//	T100-T199  config
//	T200-T299  relay
//	T300-T399  capture
//	T400-T499  CLI input
//
// Errors unwrap to their cause, so errors.Is and errors.As see through them.
package errors
