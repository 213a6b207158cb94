// Package ports defines the interfaces (Hexagonal Architecture "Ports")
// between the flacon pipeline and its collaborators: the geometry kernel
// that owns the solids, the export backend that serializes them, and the
// store that keeps generation results.
package ports
