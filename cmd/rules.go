package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"phenomatrix/internal/ruleset"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Validate a ruleset file and summarize its per-worksheet rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagRuleset == "" {
			return fmt.Errorf("--ruleset is required (or set ruleset_file in the config)")
		}
		rs, err := ruleset.Load(flagRuleset)
		if err != nil {
			return err
		}

		fmt.Printf("Ruleset: %s\n", flagRuleset)
		if rs.DatasetName != "" {
			fmt.Printf("Dataset: %s\n", rs.DatasetName)
		}
		fmt.Printf("Qualified sheets: %s\n", strings.Join(rs.QualifiedSheetNames, ", "))
		for _, name := range rs.SheetsToProcess {
			sheet, err := rs.Sheet(name)
			if err != nil {
				return err
			}
			fmt.Printf("\nWorksheet '%s':\n", name)
			fmt.Printf("  header row:        %v\n", sheet.HasHeaderRow)
			fmt.Printf("  case/control code: %s\n", sheet.Coding)
			fmt.Printf("  override control:  %v\n", sheet.OverrideControlCase)
			fmt.Printf("  qualified columns: %d\n", len(sheet.QualifiedColumns))
			fmt.Printf("  ignored columns:   %s\n", joinSet(sheet.IgnoredColumns))
			fmt.Printf("  split columns:     %s\n", joinSet(sheet.SplitColumns))
			fmt.Printf("  quantitative:      %s\n", joinSet(sheet.QuantitativeColumns))
			fmt.Printf("  yes/no columns:    %s\n", joinSet(sheet.YesNoColumns))
		}
		fmt.Println("\n✓ Ruleset is valid")
		return nil
	},
}

func joinSet(set map[string]bool) string {
	if len(set) == 0 {
		return "(none)"
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
