package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jsvensson/base16sh"
	"github.com/jsvensson/base16sh/internal/catalog"
	"github.com/jsvensson/base16sh/internal/preview"
	"github.com/spf13/cobra"
)

var (
	flagOrder  string
	flagSwatch bool
	flagRaw    bool
	flagJSON   bool
	flagOut    string
	flagApp    []string
)

var schemesCmd = &cobra.Command{
	Use:   "schemes",
	Short: "List scheme names",
	Args:  cobra.NoArgs,
	RunE:  runSchemes,
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List template keys",
	Args:  cobra.NoArgs,
	RunE:  runTemplates,
}

var showCmd = &cobra.Command{
	Use:   "show <scheme>",
	Short: "Preview a scheme in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var renderCmd = &cobra.Command{
	Use:   "render <scheme> <template>",
	Short: "Render a template for a scheme to stdout",
	Args:  cobra.ExactArgs(2),
	RunE:  runRender,
}

var variablesCmd = &cobra.Command{
	Use:   "variables <scheme>",
	Short: "Print the template variables derived from a scheme",
	Args:  cobra.ExactArgs(1),
	RunE:  runVariables,
}

var generateCmd = &cobra.Command{
	Use:   "generate <scheme>",
	Short: "Render a scheme through every template into a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func addQueryCommands(root *cobra.Command) {
	for _, cmd := range []*cobra.Command{schemesCmd, showCmd, renderCmd, generateCmd} {
		cmd.Flags().StringVar(&flagOrder, "order", "name", "scheme ordering for navigation: name or color")
	}
	schemesCmd.Flags().BoolVar(&flagSwatch, "swatch", false, "draw each scheme's palette next to its name")
	showCmd.Flags().BoolVar(&flagRaw, "raw", false, "print the definition file instead of a preview")
	variablesCmd.Flags().BoolVar(&flagJSON, "json", false, "print variables as a JSON object")
	generateCmd.Flags().StringVar(&flagOut, "out", "output", "output directory")
	generateCmd.Flags().StringArrayVar(&flagApp, "app", nil, "generate only for specific template keys (can be repeated)")

	root.AddCommand(schemesCmd, templatesCmd, showCmd, renderCmd, variablesCmd, generateCmd)
}

// resolve finds the scheme for a user-supplied name and notes on stderr when
// the name was corrected.
func resolve(cmd *cobra.Command, svc *base16sh.Service, name string) (catalog.SchemeRecord, error) {
	res, err := svc.ResolveScheme(name)
	if err != nil {
		return catalog.SchemeRecord{}, fmt.Errorf("scheme %q: %w", name, err)
	}
	if res.Redirect {
		fmt.Fprintf(cmd.ErrOrStderr(), "using scheme %q\n", res.Record.Name)
	}
	return res.Record, nil
}

func runSchemes(cmd *cobra.Command, args []string) error {
	order, err := catalog.ParseOrder(flagOrder)
	if err != nil {
		return err
	}
	svc, err := openService()
	if err != nil {
		return err
	}

	names := svc.ListSchemeNames(order)
	if !flagSwatch {
		return printLines(cmd.OutOrStdout(), names)
	}

	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}
	for _, name := range names {
		rec, _ := svc.Schemes().Get(name)
		def, err := svc.LoadScheme(rec)
		if err != nil {
			log.Warningf("skipping %s: %v", name, err)
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), preview.Line(name, width+2, def))
	}
	return nil
}

func runTemplates(cmd *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	return printLines(cmd.OutOrStdout(), svc.ListTemplateNames())
}

func runShow(cmd *cobra.Command, args []string) error {
	order, err := catalog.ParseOrder(flagOrder)
	if err != nil {
		return err
	}
	svc, err := openService()
	if err != nil {
		return err
	}
	rec, err := resolve(cmd, svc, args[0])
	if err != nil {
		return err
	}

	if flagRaw {
		data, err := svc.RawScheme(rec)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	def, err := svc.LoadScheme(rec)
	if err != nil {
		return err
	}
	prev, next, err := svc.Neighbors(rec.Name, order)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), preview.Card(def, rec.System, preview.Nav{Prev: prev, Next: next}))
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	order, err := catalog.ParseOrder(flagOrder)
	if err != nil {
		return err
	}
	svc, err := openService()
	if err != nil {
		return err
	}
	rec, err := resolve(cmd, svc, args[0])
	if err != nil {
		return err
	}
	tmpl, err := svc.ResolveTemplate(args[1])
	if err != nil {
		return fmt.Errorf("template %q: %w", args[1], err)
	}

	out, err := svc.Render(rec, tmpl, order)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), out)
	return err
}

func runVariables(cmd *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	rec, err := resolve(cmd, svc, args[0])
	if err != nil {
		return err
	}
	def, err := svc.LoadScheme(rec)
	if err != nil {
		return err
	}

	vars := svc.DeriveVariables(def)
	if flagJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(vars)
	}
	for _, key := range vars.Keys() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", key, vars[key])
	}
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	order, err := catalog.ParseOrder(flagOrder)
	if err != nil {
		return err
	}
	svc, err := openService()
	if err != nil {
		return err
	}
	rec, err := resolve(cmd, svc, args[0])
	if err != nil {
		return err
	}

	g := base16sh.Generator{
		OutputDir: flagOut,
		Apps:      flagApp,
		Order:     order,
	}
	written, err := svc.Generate(g, rec)
	if err != nil {
		return fmt.Errorf("generating: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated %d files in %s\n", len(written), flagOut)
	return nil
}

func printLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
