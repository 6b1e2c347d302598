package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"phenomatrix/internal/logging"
	"phenomatrix/internal/matrix"
	"phenomatrix/internal/ruleset"
	"phenomatrix/internal/source"
)

var countsSheet string

// iopColumns are the intraocular-pressure readings counted by the counts
// command.
var iopColumns = []string{"Highest IOP_RE", "Highest IOP_LE", "Highest IOP"}

var countsCmd = &cobra.Command{
	Use:   "counts <workbook>",
	Short: "Report how many subjects have at least one IOP measurement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		infile := args[0]
		if _, err := os.Stat(infile); err != nil {
			return fmt.Errorf("input file not found: %s", infile)
		}
		if flagRuleset == "" {
			return fmt.Errorf("--ruleset is required (or set ruleset_file in the config)")
		}

		rs, err := ruleset.Load(flagRuleset)
		if err != nil {
			return err
		}
		sheetRules, err := rs.Sheet(countsSheet)
		if err != nil {
			return err
		}

		wb, err := source.Open(infile)
		if err != nil {
			return err
		}
		defer wb.Close()

		sheet, err := wb.Sheet(countsSheet)
		if err != nil {
			return err
		}
		if len(sheet.Rows) == 0 {
			return fmt.Errorf("worksheet '%s' is empty", countsSheet)
		}

		log := logging.NewDiscard()
		var hdr *matrix.Header
		if sheetRules.HasHeaderRow {
			hdr, err = matrix.ResolveHeader(sheet.Rows[0], sheetRules, log)
		} else {
			hdr, err = matrix.HeaderFromRuleset(sheetRules)
		}
		if err != nil {
			return err
		}

		sampleLetter, ok := hdr.Letter("Sample_ID")
		if !ok {
			return fmt.Errorf("worksheet '%s' has no Sample_ID column", countsSheet)
		}
		var iopLetters []string
		for _, col := range iopColumns {
			if letter, ok := hdr.Letter(col); ok {
				iopLetters = append(iopLetters, letter)
			}
		}
		if len(iopLetters) == 0 {
			return fmt.Errorf("worksheet '%s' has none of the IOP columns (%s)", countsSheet, strings.Join(iopColumns, ", "))
		}

		rows := 0
		sampleIDs := 0
		withIOP := make(map[string]bool)
		for i, row := range sheet.Rows {
			rowNum := i + 1
			rows++
			if rowNum == 1 && sheetRules.HasHeaderRow {
				continue
			}
			sampleID := ""
			hasReading := false
			for _, cell := range row {
				if cell.Letter == sampleLetter {
					sampleID = strings.TrimSpace(cell.Value)
					continue
				}
				for _, letter := range iopLetters {
					if cell.Letter == letter && strings.TrimSpace(cell.Value) != "" {
						hasReading = true
					}
				}
			}
			if sampleID == "" {
				continue
			}
			sampleIDs++
			if hasReading {
				withIOP[sampleID] = true
			}
		}

		fmt.Printf("Processed '%d' rows in worksheet '%s'\n", rows, countsSheet)
		fmt.Printf("Found '%d' sample_id values\n", sampleIDs)
		fmt.Printf("Found '%d' patient records with at least one IOP measurement\n", len(withIOP))
		return nil
	},
}

func init() {
	countsCmd.Flags().StringVar(&countsSheet, "sheet", "Glaucoma", "worksheet to scan")
	rootCmd.AddCommand(countsCmd)
}
