// Package directory implements the dated directory reader: given a
// directory of per-date files named by a pattern and a date range (or an
// explicit date list such as a trading calendar), it resolves the
// expected file set, reads each existing file on a bounded worker pool,
// and concatenates the results into one combined table.
//
// Partial-failure policy: missing expected files are reported and
// skipped, and a failed single-file read is recovered into a tagged
// outcome — partial coverage beats hard failure as long as at least one
// file is found. Only discovery errors (directory missing, zero matching
// files), configuration errors (bad engine, inverted range), and
// aggregation errors cross the package boundary.
//
// No completion-order guarantee is made for workers; the combined table
// follows the resolved file order because each worker writes into its
// own submission slot. Callers needing a specific row order should sort
// downstream.
package directory
