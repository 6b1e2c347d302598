package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"phenomatrix/internal/logging"
	"phenomatrix/internal/matrix"
	"phenomatrix/internal/ruleset"
	"phenomatrix/internal/run"
	"phenomatrix/internal/source"
	"phenomatrix/internal/utils"
)

var convertCmd = &cobra.Command{
	Use:   "convert <workbook>",
	Short: "Convert a study workbook into binary and quantitative matrices",
	Long: `Convert processes every qualified worksheet of the input workbook
(.xlsx, .csv or .tsv) and writes one binary and one quantitative
tab-delimited matrix per worksheet, plus a run manifest.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		infile := args[0]
		if _, err := os.Stat(infile); err != nil {
			return fmt.Errorf("input file not found: %s", infile)
		}
		if flagRuleset == "" {
			return fmt.Errorf("--ruleset is required (or set ruleset_file in the config)")
		}

		outdir := flagOutdir
		if outdir == "" {
			outdir = filepath.Join(os.TempDir(), "phenomatrix", time.Now().Format("2006-01-02-150405"))
			fmt.Fprintf(os.Stderr, "⚠ Warning: --outdir was not specified, using '%s'\n", outdir)
		}
		if err := utils.EnsureDir(outdir); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}

		log, err := newRunLogger(outdir)
		if err != nil {
			return err
		}
		defer log.Close()
		log.Info("The input file is '%s'", infile)

		rs, err := ruleset.Load(flagRuleset)
		if err != nil {
			return err
		}
		log.Info("Loaded ruleset from '%s'", flagRuleset)

		wb, err := source.Open(infile)
		if err != nil {
			return err
		}
		defer wb.Close()

		engine := matrix.NewEngine(rs, log, outdir)
		results, err := engine.Run(wb)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			return fmt.Errorf("no qualified worksheets found in '%s'", infile)
		}

		manifest := run.NewManifest(infile, flagRuleset, rs.DatasetName)
		for _, r := range results {
			manifest.AddSheet(run.SheetSummary{
				Name:             r.Sheet,
				Rows:             r.Rows,
				Subjects:         r.Subjects,
				BinaryFile:       r.BinaryFile,
				QuantitativeFile: r.QuantitativeFile,
			})
			fmt.Printf("Processed '%d' rows ('%d' subjects) in worksheet '%s'\n", r.Rows, r.Subjects, r.Sheet)
		}
		manifestPath, err := manifest.Write(outdir)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Wrote outputs for %d worksheet(s) to '%s' (manifest: %s)\n", len(results), outdir, manifestPath)
		return nil
	},
}

// newRunLogger builds the per-run logger: file-backed inside the output
// directory unless disabled or overridden by --logfile.
func newRunLogger(outdir string) (*logging.Logger, error) {
	level := logging.LevelInfo
	if cfg != nil {
		level = logging.ParseLevel(cfg.LogLevel)
	}
	if flagVerbose {
		level = logging.LevelDebug
	}
	logfile := flagLogfile
	if logfile == "" && (cfg == nil || cfg.LogToFile) {
		logfile = filepath.Join(outdir, "phenomatrix.log")
	}
	return logging.New(level, logfile)
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
