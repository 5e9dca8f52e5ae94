package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexanderramin/scopecurve/internal/codec"
	"github.com/alexanderramin/scopecurve/internal/dates"
	"github.com/alexanderramin/scopecurve/internal/domain"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		format  = codec.FormatCSV
		outPath string
		toClip  bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the project as CSV, JSON, AI-oriented JSON or XML",
		Long: `Write the project to stdout, a file (--out) or the clipboard (--copy).
When the clipboard is unavailable the export is written to a file instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := app.Workspace.Export(cmd.Context(), format)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if toClip {
				clipErr := app.copyText(string(data))
				if clipErr == nil {
					fmt.Fprintf(out, "Copied %s export to clipboard (%d bytes)\n", format, len(data))
					return nil
				}
				path := outPath
				if path == "" {
					path = fallbackExportName(format, dates.Format(app.now()))
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return fmt.Errorf("clipboard unavailable (%v) and writing %s failed: %w", clipErr, path, err)
				}
				fmt.Fprintf(out, "Clipboard unavailable (%v); wrote %s\n", clipErr, path)
				return nil
			}

			if outPath != "" {
				if err := os.WriteFile(outPath, data, 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", outPath, err)
				}
				fmt.Fprintf(out, "Wrote %s (%d bytes)\n", outPath, len(data))
				return nil
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().Var(newFormatValue(&format), "format", "Output format: csv, json, json-ai or xml")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&toClip, "copy", false, "Copy to the clipboard, falling back to a file")

	return cmd
}

func fallbackExportName(f codec.Format, day string) string {
	ext := string(f)
	if f == codec.FormatJSONAI {
		ext = "ai.json"
	}
	return fmt.Sprintf("scopecurve-%s.%s", day, ext)
}

func newImportCmd(app *App) *cobra.Command {
	var (
		format     codec.Format
		appendMode bool
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Load a CSV, JSON or XML export (- reads stdin)",
		Long: `Load a project file. By default the file replaces the current project; with
--append its scopes, readings and snapshots are merged in and nothing already
present is removed. Any invalid row aborts the whole load.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			mode := domain.LoadOverwrite
			if appendMode {
				mode = domain.LoadAppend
			}
			res, err := app.Workspace.Load(cmd.Context(), data, format, mode)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(res.Sections))
			for _, s := range res.Sections {
				names = append(names, string(s))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %s (%s): %d scopes; sections %s\n",
				res.Format, res.Mode, res.Scopes, strings.Join(names, ", "))
			return nil
		},
	}

	cmd.Flags().Var(newFormatValue(&format), "format", "Input format (detected when omitted)")
	cmd.Flags().BoolVar(&appendMode, "append", false, "Merge into the current project instead of replacing it")

	return cmd
}
