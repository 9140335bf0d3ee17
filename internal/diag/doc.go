// Package diag defines the diagnostic model shared by the driver and the
// semantic core.
//
// Producers emit through a Reporter; BagReporter stores into a Bag that the
// CLI sorts, deduplicates and hands to internal/diagfmt for rendering. The
// symbol table and classification graph never report directly: they return
// typed errors, and the driver turns those into diagnostics tied to the
// declaration that caused them, then keeps analysing.
package diag
