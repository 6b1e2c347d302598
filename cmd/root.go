package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "phenomatrix/internal/config"
	"phenomatrix/internal/errs"
)

var (
	// Global flags
	cfgFile     string
	flagRuleset string
	flagOutdir  string
	flagLogfile string
	flagVerbose bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "phenomatrix",
	Short: "Convert clinical-study worksheets into binary and quantitative matrices",
	Long: `phenomatrix converts ophthalmology case/control worksheets (Glaucoma,
DR, AMD) into flat tab-delimited binary and quantitative matrices suitable
for downstream statistical and genetic analysis.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		if code := errs.GetCode(err); code != "UNKNOWN" {
			fmt.Fprintf(os.Stderr, "✗ Error [%s]: %v\n", code, err)
		} else {
			fmt.Fprintln(os.Stderr, "✗ Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.phenomatrix/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagRuleset, "ruleset", "", "ruleset JSON file declaring the per-worksheet rules")
	rootCmd.PersistentFlags().StringVar(&flagOutdir, "outdir", "", "output directory (default is a timestamped dir under the system temp dir)")
	rootCmd.PersistentFlags().StringVar(&flagLogfile, "logfile", "", "log file (default is phenomatrix.log inside the output directory)")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if !f.Changed("ruleset") && cfg.RulesetFile != "" {
		flagRuleset = cfg.RulesetFile
	}
	if !f.Changed("outdir") && cfg.Outdir != "" {
		flagOutdir = cfg.Outdir
	}
}
