// hopctl 노선 데이터로 경로/거리/역 선택을 오프라인 확인하는 CLI
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootOptions 모든 하위 명령 공통 플래그
type rootOptions struct {
	datasetPath  string
	startGroupCd string
	seed         uint64
	suspended    []string
	jsonOutput   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "hopctl",
		Short:         "Inspect routes, distances and picks on a metro dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultDataset := os.Getenv("DATASET_PATH")
	if defaultDataset == "" {
		defaultDataset = "data/osaka-metro.json"
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.datasetPath, "dataset", defaultDataset, "Path to the dataset (.json, .yaml)")
	flags.StringVar(&opts.startGroupCd, "start-group", "1160214", "Station group the walk starts from")
	flags.Uint64Var(&opts.seed, "seed", 0, "Random seed (0 = time based)")
	flags.StringSliceVar(&opts.suspended, "suspend", nil, "Suspended line codes")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")

	rootCmd.AddCommand(
		newRouteCmd(opts),
		newDistancesCmd(opts),
		newPickCmd(opts),
	)
	return rootCmd
}
