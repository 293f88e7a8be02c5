// Package workspace provides file access for do-files rooted at a workspace
// directory, together with the backup policy applied before every mutation.
//
// Relative paths are resolved against the workspace root; absolute paths pass
// through unchanged. Backups live in a hidden directory under the root:
//
//	{root}/.backups/{name}.{timestamp}.bak
//
// where the timestamp is ISO-8601 with ':' and '.' replaced by '-', for example
// analysis.do.2026-10-17T10-57-03-123Z.bak.
//
// # Locks
//
// [Locks] hands out one mutex per resolved path. Callers that mutate a file or
// derive ephemeral files from it hold the path lock for the duration, which
// serializes concurrent requests against the same script without affecting
// requests against different scripts.
package workspace
