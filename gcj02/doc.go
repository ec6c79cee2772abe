// Package gcj02 converts coordinates from the GCJ-02 datum used by Chinese
// mapping providers to plain WGS-84.
//
// GCJ-02 applies a position-dependent offset to every point inside mainland
// China. The correction implemented here is the widely used closed-form
// approximation of that offset; it carries the exact constants of the
// reference implementation so converted output is reproducible bit for bit.
// Points outside the obfuscated region pass through unchanged.
package gcj02
