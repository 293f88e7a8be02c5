package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/dotools/run"
	"github.com/jonwraymond/dotools/script"
	"github.com/jonwraymond/dotools/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the do-file tools over MCP on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd)
		},
	}
}

func (a *app) serve(cmd *cobra.Command) error {
	srv, err := a.server()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.RunStdio(ctx)
}

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <file.do>",
		Short: "Run a whole do-file and print its log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := a.server()
			if err != nil {
				return err
			}
			res, err := srv.Executor().RunFile(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return report(cmd, res)
		},
	}
}

func newRunLinesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run-lines <file.do> <start> <end>",
		Short: "Run a line range of a do-file and print its log",
		Long: `Copies lines start through end (1-based, inclusive) into a temporary
do-file, adds baseline setup when the selection has none, runs it and
removes the temporary files.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("start line %q is not a number", args[1])
			}
			end, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("end line %q is not a number", args[2])
			}

			srv, err := a.server()
			if err != nil {
				return err
			}
			res, err := srv.Executor().ExecuteSelectedLines(commandContext(cmd), args[0], start, end)
			if err != nil {
				return err
			}
			return report(cmd, res)
		},
	}
}

// report prints the run output and turns a failed run into an error so the
// process exits non-zero.
func report(cmd *cobra.Command, res run.Result) error {
	fmt.Fprint(cmd.OutOrStdout(), res.Output)
	if !res.Success {
		return fmt.Errorf("stata exited with code %d (log: %s)", res.ExitCode, res.LogPath)
	}
	return nil
}

func newSectionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sections <file.do>",
		Short: "Show which section markers a do-file contains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := a.server()
			if err != nil {
				return err
			}
			text, err := srv.Workspace().ReadText(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), sectionTable(script.Locate(text)))
			return nil
		},
	}
}

// sectionTable lists every registered section with the line of its marker,
// or "-" when the marker is absent.
func sectionTable(found []script.Found) string {
	at := make(map[script.Section]script.Found, len(found))
	for _, f := range found {
		at[f.Section] = f
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Section", "Line", "Marker"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})

	present := 0
	for _, s := range script.Sections() {
		f, ok := at[s]
		if !ok {
			table.Append([]string{string(s), "-", ""})
			continue
		}
		present++
		table.Append([]string{string(s), strconv.Itoa(f.Line), f.Text})
	}
	table.SetFooter([]string{fmt.Sprintf("%d/%d found", present, len(script.Sections())), "", ""})
	table.Render()
	return buf.String()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", server.Name, server.Version)
		},
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
