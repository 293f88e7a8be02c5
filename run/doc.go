// Package run invokes the Stata interpreter on a do-file in batch mode.
//
// An [Interpreter] spawns the configured executable as
//
//	<executable> <batch-flag> do <script>
//
// with the script's directory as working directory, waits for it to exit and
// then reads the companion log file Stata writes next to the script
// ([LogPath]). The batch flag is "/e" on Windows and "-b" elsewhere.
//
// # Outcomes
//
// Three outcomes are kept apart:
//
//   - The process could not be started (missing executable, not executable):
//     a [*SpawnError] is returned, matching [ErrSpawn].
//   - The process ran and exited non-zero: the [Result] has Success=false and
//     the error is nil. This is a normal unsuccessful run.
//   - The optional timeout expired: the process is killed and [ErrTimeout]
//     is returned along with whatever output was captured.
//
// The captured output prefers the log file content, then standard output,
// then standard error.
package run
