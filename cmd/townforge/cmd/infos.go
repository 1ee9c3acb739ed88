package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// infosCmd represents the infos command.
var infosCmd = &cobra.Command{
	Use:   "infos PLANFILE",
	Short: "show infos about a produced plan",
	Long: `Read a plan summary written by 'townforge plan' and print it on
standard output.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
			check(fmt.Errorf("PLANFILE is required"))
		}
		path := args[0]
		check(fileExists(path))

		var s planSummary
		check(unmarshalYAMLFile(path, &s))

		fmt.Printf("perimeter points: %d\n", s.PerimeterPoints)
		fmt.Printf("roads:            %d\n", s.Roads)
		fmt.Printf("plots:            %d\n", s.Plots)
		fmt.Printf("street edges:     %d\n", s.Streets)
	},
}

func init() {
	RootCmd.AddCommand(infosCmd)
}
