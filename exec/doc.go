// Package exec runs a selected range of lines from a do-file.
//
// The Stata interpreter only runs whole files, so executing lines 5–8 of a
// script means building a small, self-contained do-file around them, running
// it, and throwing it away afterwards. The package splits that into pure and
// effectful steps:
//
//   - [ExtractRange] validates a 1-based inclusive range and returns the
//     selected lines tagged with their original line numbers.
//   - [Synthesize] renders the ephemeral do-file: a provenance header, a
//     baseline setup block (only when the selection has no setup statement of
//     its own), each line preceded by a "* Line n" comment, and a trailing
//     "exit".
//   - [Executor.ExecuteSelectedLines] ties the steps together with the file
//     system and the interpreter.
//
// # Basic Usage
//
//	interp, _ := run.NewInterpreter(run.WithExecutable("/usr/local/stata18/stata-mp"))
//	ws, _ := workspace.New("/data/project")
//	executor, err := exec.New(exec.Options{
//	    Workspace: ws,
//	    Runner:    interp,
//	})
//
//	res, err := executor.ExecuteSelectedLines(ctx, "clean.do", 5, 8)
//	fmt.Println(res.Success, res.LogPath)
//	fmt.Println(res.Output) // begins with "Selected lines 5-8 of .../clean.do"
//
// # Cleanup
//
// The ephemeral do-file lives next to its source so relative paths inside the
// selected lines keep working. It is removed, together with the log the
// interpreter wrote for it, in a deferred step that runs on every exit path:
// normal completion, non-zero exit, spawn failure, timeout and cancellation.
// Removal failures are logged and never returned.
//
// # Termination
//
// The synthesized file always ends with "exit", even when the selected lines
// already contain one.
package exec
