// Package grid holds the in-memory grid model: the cell classification mask and
// the dense value layers addressed by (row, col).
//
// A Mask fixes the grid shape for the lifetime of a schematization. Every Layer
// registered against it must have the same shape. Layers are always dense; the
// sparse active-cell projection exists only in the serialized form produced by
// packages index and maps.
//
// Mask mutations bump a revision counter so consumers holding a derived artifact
// (an active-cell index) can tell that it no longer matches.
package grid
