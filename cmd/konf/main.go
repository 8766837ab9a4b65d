package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	konf "github.com/reoring/konf"
)

var (
	flagSchema   string
	flagConfig   string
	flagEncoding string
	flagWarnings bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "konf",
		Short:         "Inspect and validate schema-backed configuration files",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVarP(&flagSchema, "schema", "s", "", "JSON/YAML schema file")
	rootCmd.PersistentFlags().StringVarP(&flagEncoding, "encoding", "e", "", "IANA character set of the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&flagWarnings, "warnings", "w", false, "print schema walking warnings to stderr")

	validateCmd := &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file against its schema, reporting every violation",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}

	defaultsCmd := &cobra.Command{
		Use:   "defaults",
		Short: "Print the default tree a schema provides",
		Args:  cobra.NoArgs,
		RunE:  runDefaults,
	}

	getCmd := &cobra.Command{
		Use:   "get <dotted.path>",
		Short: "Print the merged value at a path (defaults layered under the config file)",
		Args:  cobra.ExactArgs(1),
		RunE:  runGet,
	}
	getCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "JSON/YAML configuration file")

	pathsCmd := &cobra.Command{
		Use:   "paths",
		Short: "List every leaf path of the merged configuration",
		Args:  cobra.NoArgs,
		RunE:  runPaths,
	}
	pathsCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "JSON/YAML configuration file")

	rootCmd.AddCommand(validateCmd, defaultsCmd, getCmd, pathsCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// sourceFor picks the decoder by file extension; .yaml/.yml files are
// normalized to JSON-shaped trees, everything else is treated as JSON.
func sourceFor(path string) konf.Source {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return konf.YAMLFile(path)
	default:
		return konf.JSONFile(path)
	}
}

func requireSchema() error {
	if flagSchema == "" {
		return fmt.Errorf("--schema is required")
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	if err := requireSchema(); err != nil {
		return err
	}
	diag := konf.NewDiag()
	v, err := konf.NewValidator(sourceFor(flagSchema), konf.ValidateOpt{Diag: diag})
	if err != nil {
		return err
	}
	doc, err := sourceFor(args[0]).Document(konf.LoadOpt{Encoding: flagEncoding})
	if err != nil {
		return err
	}
	iss, err := v.Validate(doc)
	printWarnings(cmd, diag)
	if err != nil {
		return err
	}
	if len(iss) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid against %s\n", args[0], flagSchema)
		return nil
	}
	for _, i := range iss {
		fmt.Fprintf(cmd.OutOrStdout(), "%s at %s: %s\n", i.Rule, i.Path.Pointer(), i.Message)
	}
	return fmt.Errorf("%d violation(s)", len(iss))
}

func runDefaults(cmd *cobra.Command, args []string) error {
	if err := requireSchema(); err != nil {
		return err
	}
	raw, err := sourceFor(flagSchema).Document(konf.LoadOpt{})
	if err != nil {
		return err
	}
	schema, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("schema must be an object, got %T", raw)
	}
	defaults, found, err := konf.Defaults(schema)
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintln(cmd.OutOrStdout(), "no defaults")
		return nil
	}
	return printJSON(cmd, defaults)
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	printWarnings(cmd, cfg.Diag())
	v, ok := cfg.Get(konf.ParsePath(args[0]))
	if !ok {
		return fmt.Errorf("%s not set (first missing segment: %v)", args[0], v)
	}
	return printJSON(cmd, v)
}

func runPaths(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	printWarnings(cmd, cfg.Diag())
	for _, pv := range cfg.Paths() {
		b, err := json.Marshal(pv.Value)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", pv.Path, b)
	}
	return nil
}

func loadConfig() (*konf.Config, error) {
	if err := requireSchema(); err != nil {
		return nil, err
	}
	if flagConfig == "" {
		return nil, fmt.Errorf("--config is required")
	}
	cfg := konf.New()
	err := cfg.Load(sourceFor(flagConfig), sourceFor(flagSchema), konf.LoadOpt{Encoding: flagEncoding})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}

func printWarnings(cmd *cobra.Command, d konf.Diag) {
	if !flagWarnings || !d.HasWarnings() {
		return
	}
	for _, w := range d.Warnings() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
}
