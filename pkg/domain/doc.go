// Package domain contains the core types of the flacon pipeline: the input
// parameter set, the resolved geometry derived from it, and the generation
// result returned to callers.
//
// Everything in this package is pure data and pure functions. Resolution
// never touches a geometry kernel; it only derives and clamps dimensions so
// that downstream composition can hand the kernel strictly positive values.
package domain
