package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arl/townforge/orchestrator"
	"github.com/arl/townforge/planctx"
)

// planSummary is the on-disk shape a plan command run produces and an
// infos command run reads back. It deliberately drops per-point
// coordinate detail (that belongs to the in-process Plan, not a
// durable report) and keeps only the counts an operator cares about.
type planSummary struct {
	PerimeterPoints int
	Roads           int
	Plots           int
	Streets         int
}

var planCfgPath string

// planCmd represents the plan command.
var planCmd = &cobra.Command{
	Use:   "plan OUTFILE",
	Short: "plan a settlement layout over a demo voxel volume",
	Long: `Run the full planning pipeline (feature extraction, classification,
perimeter fitting, road routing and area partitioning) over a synthetic
demo voxel volume, shaped by the plan settings file, and write a
summary to OUTFILE in YAML format.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
			check(fmt.Errorf("OUTFILE is required"))
		}
		outPath := args[0]

		pc := DefaultPlanConfig()
		if planCfgPath != "" {
			check(fileExists(planCfgPath))
			check(unmarshalYAMLFile(planCfgPath, &pc))
		}

		vol, err := buildDemoVolume(pc)
		check(err)

		ctx := planctx.New(true)
		plan, ok := orchestrator.Run(ctx, vol, nil, pc.toOrchestratorConfig())
		if !ok {
			check(fmt.Errorf("no town site found for this terrain"))
		}

		streetEdges := 0
		for _, p := range plan.Streets {
			streetEdges += len(p.Edges)
		}
		summary := planSummary{
			PerimeterPoints: len(plan.Perimeter),
			Roads:           len(plan.Roads),
			Plots:           len(plan.Streets),
			Streets:         streetEdges,
		}
		check(marshalYAMLFile(outPath, summary))

		for _, m := range ctx.Messages() {
			fmt.Println(m)
		}
		fmt.Printf("plan written to '%s'\n", outPath)
	},
}

func init() {
	RootCmd.AddCommand(planCmd)
	planCmd.Flags().StringVar(&planCfgPath, "config", "", "plan settings file (defaults built in if omitted)")
}
