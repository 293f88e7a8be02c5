// Package tools defines the MCP tools that manage and run Stata do-files.
//
// A [Toolset] holds the tool catalog (as toolfoundation model.Tool values in
// the "stata" namespace) together with the handlers, and installs them on an
// mcp.Server with [Toolset.Register].
//
// # Tools
//
//	browse_do_files        list .do files in a directory
//	read_do_file           return a do-file's text
//	write_do_file          write a do-file, backing up the previous version
//	edit_do_file           add_variable | add_analysis | insert_section
//	generate_do_template   write a skeleton do-file with every section marker
//	run_do_file            run a whole do-file
//	run_do_selected_lines  run a line range of a do-file
//
// # Failures
//
// Handlers never fail at the transport level. Every error becomes a text
// result with IsError set, prefixed with a short code (VALIDATION,
// NOT_FOUND, INVALID_RANGE, SPAWN_FAILED, TIMEOUT, ERROR) so callers can
// branch on the kind of failure. A run whose interpreter exits non-zero is a
// normal result with success=false.
//
// # Concurrency
//
// Mutating tools hold the workspace lock for the target path while they
// read, back up and write. Share the same workspace.Locks with the executor
// so edits and selective runs of one file do not interleave.
package tools
