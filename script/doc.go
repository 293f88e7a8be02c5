// Package script implements the section editor for Stata do-files.
//
// A do-file is treated as an ordered list of lines. Nothing is parsed beyond
// line boundaries and comment detection: a line is comment-only when, after
// leading whitespace, it starts with "*" or "//".
//
// # Sections
//
// Six logical sections are recognized, each by a case-insensitive marker
// comment:
//
//	setup          * Setup
//	data_load      * Load data / * Import data
//	preprocessing  * Data preprocessing / * Data cleaning
//	descriptive    * Descriptive statistics
//	analysis       * Main analysis / * Analysis
//	output         * Output / * Export results
//
// Sections are not stored anywhere; [LocateSection] finds the first line
// matching the marker each time an edit is requested.
//
// # Insertion
//
// [InsertAt] places a block either at the marker line ([Before]) or after the
// marker and the run of comment-only lines directly below it ([After]). The
// block is always padded with one blank line on each side.
//
// Nothing in this package touches storage. Editing functions take and return
// text; persisting the result (with a backup) is the caller's job.
package script
