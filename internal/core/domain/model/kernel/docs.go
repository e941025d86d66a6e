// Package kernel provides the shared domain primitives of the work order system.
//
// The package includes:
//   - UUID: a value object for aggregate and operator identifiers
//   - Clock: the source of "now" for every timestamp the domain records
//
// Domain operations never read the wall clock themselves; application services
// pass the instant obtained from a Clock so that transitions are reproducible.
package kernel
