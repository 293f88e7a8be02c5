package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/dotools/run"
)

// RunInput is the input of run_do_file.
type RunInput struct {
	FilePath string `json:"file_path,omitempty" jsonschema:"path of the do-file to run"`
}

// RunSelectedInput is the input of run_do_selected_lines.
type RunSelectedInput struct {
	FilePath  string `json:"file_path,omitempty" jsonschema:"path of the do-file"`
	StartLine *int   `json:"start_line,omitempty" jsonschema:"first line to run, 1-based"`
	EndLine   *int   `json:"end_line,omitempty" jsonschema:"last line to run, inclusive"`
}

// RunOutput is the structured result of both run tools.
type RunOutput struct {
	Success  bool   `json:"success"`
	ExitCode int    `json:"exit_code"`
	LogPath  string `json:"log_path"`
	Output   string `json:"output"`
}

func (ts *Toolset) runFile(ctx context.Context, _ *mcp.CallToolRequest, in RunInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(in.FilePath) == "" {
		return failure(missing("file_path")), nil, nil
	}
	res, err := ts.opts.Executor.RunFile(ctx, in.FilePath)
	if err != nil {
		return failure(err), nil, nil
	}
	return runResult(res)
}

func (ts *Toolset) runSelected(ctx context.Context, _ *mcp.CallToolRequest, in RunSelectedInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(in.FilePath) == "" {
		return failure(missing("file_path")), nil, nil
	}
	if in.StartLine == nil {
		return failure(missing("start_line")), nil, nil
	}
	if in.EndLine == nil {
		return failure(missing("end_line")), nil, nil
	}

	res, err := ts.opts.Executor.ExecuteSelectedLines(ctx, in.FilePath, *in.StartLine, *in.EndLine)
	if err != nil {
		return failure(err), nil, nil
	}
	return runResult(res)
}

// runResult reports res as text and as structured content.
func runResult(res run.Result) (*mcp.CallToolResult, any, error) {
	out := RunOutput{
		Success:  res.Success,
		ExitCode: res.ExitCode,
		LogPath:  res.LogPath,
		Output:   res.Output,
	}

	status := "succeeded"
	if !res.Success {
		status = fmt.Sprintf("failed with exit code %d", res.ExitCode)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Execution %s\n", status)
	fmt.Fprintf(&b, "Log file: %s\n\n", res.LogPath)
	b.WriteString(res.Output)

	return text(b.String()), out, nil
}
