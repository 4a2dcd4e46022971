package cmd

import (
	"encoding/json"
	"fmt"

	"skinledger/feature/skins"

	"github.com/spf13/cobra"
)

var classifyShowRule bool

// classifyCmd classifies item names from the command line, the quickest
// way to check what a name will turn into before a run.
var classifyCmd = &cobra.Command{
	Use:   "classify <name>...",
	Short: "Classify item names without touching the ledger",
	Long: `Classifies one or more free-text item names and prints the extracted
category, subname and variant as JSON.

Examples:
  skinledger classify "AK-47 | Redline (Field-Tested)"
  skinledger classify --rule "Chroma 2 Case" "Sealed Graffiti | Tag (Monster Purple)"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		classifier := skins.NewClassifier()
		for _, name := range args {
			out := map[string]any{
				"name":           name,
				"classification": classifier.Classify(name),
				"multi_variant":  classifier.IsMultiVariant(name),
			}
			if classifyShowRule {
				out["rule"] = classifier.RuleFor(name)
			}
			payload, err := json.Marshal(out)
			if err != nil {
				return err
			}
			fmt.Println(string(payload))
		}
		return nil
	},
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyShowRule, "rule", false, "Also print the name of the matching rule")
	RootCmd.AddCommand(classifyCmd)
}
