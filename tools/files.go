package tools

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/olekukonko/tablewriter"

	"github.com/jonwraymond/dotools/workspace"
)

// BrowseInput is the input of browse_do_files.
type BrowseInput struct {
	Directory string `json:"directory,omitempty" jsonschema:"directory to list, relative to the workspace root; defaults to the root"`
}

// ReadInput is the input of read_do_file.
type ReadInput struct {
	FilePath string `json:"file_path,omitempty" jsonschema:"path of the do-file to read"`
}

// WriteInput is the input of write_do_file.
type WriteInput struct {
	FilePath     string `json:"file_path,omitempty" jsonschema:"path of the do-file to write"`
	Content      string `json:"content,omitempty" jsonschema:"full text of the do-file"`
	CreateBackup *bool  `json:"create_backup,omitempty" jsonschema:"back up the existing file first; defaults to true"`
}

func (ts *Toolset) browse(_ context.Context, _ *mcp.CallToolRequest, in BrowseInput) (*mcp.CallToolResult, any, error) {
	ws := ts.opts.Workspace
	dir := ws.Root()
	if in.Directory != "" {
		dir = ws.Resolve(in.Directory)
	}

	entries, err := ws.List(dir, Extension)
	if err != nil {
		return failure(err), nil, nil
	}
	if len(entries) == 0 {
		return text(fmt.Sprintf("No do-files found in %s", dir)), nil, nil
	}
	return text(fmt.Sprintf("Do-files in %s:\n\n%s", dir, renderEntries(entries))), nil, nil
}

// renderEntries formats entries as a borderless table.
func renderEntries(entries []workspace.Entry) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Name", "Size", "Modified"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})

	var total int64
	for _, e := range entries {
		table.Append([]string{e.Name, formatSize(e.Size), e.ModTime.Format("2006-01-02 15:04:05")})
		total += e.Size
	}
	table.SetFooter([]string{fmt.Sprintf("%d files", len(entries)), formatSize(total), ""})
	table.Render()
	return buf.String()
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

func (ts *Toolset) read(_ context.Context, _ *mcp.CallToolRequest, in ReadInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(in.FilePath) == "" {
		return failure(missing("file_path")), nil, nil
	}
	content, err := ts.opts.Workspace.ReadText(in.FilePath)
	if err != nil {
		return failure(err), nil, nil
	}
	return text(content), nil, nil
}

func (ts *Toolset) write(_ context.Context, _ *mcp.CallToolRequest, in WriteInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(in.FilePath) == "" {
		return failure(missing("file_path")), nil, nil
	}
	backup := in.CreateBackup == nil || *in.CreateBackup

	ws := ts.opts.Workspace
	full := ws.Resolve(in.FilePath)

	unlock := ts.opts.Locks.Lock(full)
	defer unlock()

	backupPath, err := ws.SaveWithBackup(full, in.Content, backup)
	if err != nil {
		return failure(err), nil, nil
	}
	return text(saved("Wrote", full, backupPath)), nil, nil
}

// saved is the confirmation line shared by the mutating tools.
func saved(verb, path, backupPath string) string {
	msg := fmt.Sprintf("%s %s", verb, path)
	if backupPath != "" {
		msg += fmt.Sprintf(" (backup: %s)", backupPath)
	}
	return msg
}
