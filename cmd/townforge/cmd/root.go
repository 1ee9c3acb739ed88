package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "townforge",
	Short: "plan walled settlement layouts over voxel terrain",
	Long: `townforge plans a settlement layout over a voxel-world terrain
excerpt:
	- extracts suitability features from raw terrain (height, water, slope),
	- classifies land into town / woodcutting / agriculture masks,
	- fits a town perimeter with an active contour model,
	- routes roads between points of interest,
	- partitions the enclosed area into streets and plots.`,
}

// Execute adds all child commands to the root command and parses flags. It
// is called by main.main and only needs to run once.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
