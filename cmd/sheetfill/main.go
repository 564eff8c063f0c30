// Package main provides the CLI entry point for sheetfill.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/javajack/sheetfill"
	"github.com/spf13/cobra"
)

var (
	templatePath string
	dataPath     string
	outputPath   string
	sheetName    string
	catalogPath  string
	templateType string
	textValues   bool
	inheritScope bool
	verbose      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sheetfill",
		Short: "Render xlsx templates with loop blocks and {{ }} placeholders",
		Long: `sheetfill renders an xlsx template against a JSON or YAML context.
Rows between {% for x in list %} and {% endfor %} are repeated once per
list item; {{ expr }} placeholders are replaced with their values.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every render step")
	rootCmd.PersistentFlags().StringVar(&sheetName, "sheet", "", "Worksheet to render (default: the active sheet)")

	renderCmd := &cobra.Command{
		Use:   "render [template.xlsx]",
		Short: "Render a template with a data file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRender,
	}
	renderCmd.Flags().StringVarP(&templatePath, "template", "t", "", "Template file")
	renderCmd.Flags().StringVarP(&dataPath, "data", "d", "", "JSON or YAML context file")
	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file, or output directory with --catalog")
	renderCmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML template catalog")
	renderCmd.Flags().StringVar(&templateType, "type", "", "Template type to pick from the catalog")
	renderCmd.Flags().BoolVar(&textValues, "text-values", false, "Write every rendered value as text")
	renderCmd.Flags().BoolVar(&inheritScope, "inherit-scope", false, "Let loop cells see top-level fields")
	renderCmd.MarkFlagsRequiredTogether("catalog", "type")
	renderCmd.MarkFlagsMutuallyExclusive("catalog", "template")

	validateCmd := &cobra.Command{
		Use:   "validate template.xlsx",
		Short: "Check a template for marker and expression errors",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}

	describeCmd := &cobra.Command{
		Use:   "describe template.xlsx",
		Short: "Print the loop blocks and placeholders of a template",
		Args:  cobra.ExactArgs(1),
		RunE:  runDescribe,
	}

	rootCmd.AddCommand(renderCmd, validateCmd, describeCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runRender(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	data := map[string]any{}
	if dataPath != "" {
		var err error
		if data, err = sheetfill.LoadData(dataPath); err != nil {
			return err
		}
	}

	tmpl, out, err := resolvePaths(args, data)
	if err != nil {
		return err
	}

	filler := sheetfill.NewFiller(
		sheetfill.WithTemplate(tmpl),
		sheetfill.WithSheet(sheetName),
		sheetfill.WithLogger(logger),
		sheetfill.WithTextValues(textValues),
		sheetfill.WithInheritedScope(inheritScope),
	)
	rep, err := filler.Fill(data, out)
	if err != nil {
		return fmt.Errorf("render %s: %w", tmpl, err)
	}

	for _, issue := range rep.Issues {
		fmt.Fprintln(cmd.ErrOrStderr(), issue)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d blocks, %d warnings, %s)\n",
		out, len(rep.Blocks), len(rep.Issues), rep.Elapsed.Round(time.Millisecond))
	return nil
}

// resolvePaths picks the template and output file from the flags. With a
// catalog the output flag names a directory and the file name comes from
// the catalog's output pattern.
func resolvePaths(args []string, data map[string]any) (tmpl, out string, err error) {
	if catalogPath != "" {
		c, err := sheetfill.LoadCatalog(catalogPath)
		if err != nil {
			return "", "", err
		}
		if tmpl, err = c.Path(templateType); err != nil {
			return "", "", err
		}
		name, err := c.OutputName(templateType, data)
		if err != nil {
			return "", "", err
		}
		dir := outputPath
		if dir == "" {
			dir = "."
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", "", fmt.Errorf("create output directory: %w", err)
		}
		return tmpl, filepath.Join(dir, name), nil
	}

	tmpl = templatePath
	if tmpl == "" && len(args) == 1 {
		tmpl = args[0]
	}
	if tmpl == "" {
		return "", "", errors.New("no template: pass a file, --template or --catalog with --type")
	}
	out = outputPath
	if out == "" {
		out = "output.xlsx"
	}
	return tmpl, out, nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	issues, err := sheetfill.Validate(args[0],
		sheetfill.WithSheet(sheetName),
		sheetfill.WithLogger(newLogger()),
	)
	if err != nil {
		return err
	}

	errorsFound := 0
	for _, issue := range issues {
		fmt.Fprintln(cmd.OutOrStdout(), issue)
		if issue.Severity == sheetfill.SeverityError {
			errorsFound++
		}
	}
	if errorsFound > 0 {
		return fmt.Errorf("%d error(s) in %s", errorsFound, args[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d warnings)\n", args[0], len(issues))
	return nil
}

func runDescribe(cmd *cobra.Command, args []string) error {
	out, err := sheetfill.Describe(args[0], sheetfill.WithSheet(sheetName))
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
