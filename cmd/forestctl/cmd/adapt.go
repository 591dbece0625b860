package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meshforest/forest/internal/forest"
)

var (
	adaptPredicate   string
	adaptRecursive   bool
	adaptTargetLevel int
)

var adaptCmd = &cobra.Command{
	Use:   "adapt",
	Short: "Build a fresh uniform forest and run one adapt pass with a named predicate",
	RunE: func(cmd *cobra.Command, args []string) error {
		source, reg, err := buildUniform()
		if err != nil {
			return err
		}

		predicate, err := lookupPredicate(adaptPredicate, adaptTargetLevel)
		if err != nil {
			return err
		}

		target := forest.New()
		target.SetScheme(reg)
		target.SetAdapt(source, predicate, adaptRecursive)
		if appConfig != nil {
			target.SetParallelism(appConfig.Adapt.Parallelism)
		}
		if err := target.Commit(); err != nil {
			return err
		}

		fmt.Printf("source: %d elements -> adapted: %d elements (predicate=%s, recursive=%v)\n",
			source.NumLocalElements(), target.NumLocalElements(), adaptPredicate, adaptRecursive)
		return nil
	},
}

func init() {
	adaptCmd.Flags().StringVar(&uniformClass, "class", "quad", "Element class: line, quad, hex, triangle, tet, prism, pyramid")
	adaptCmd.Flags().IntVar(&uniformLevel, "level", 2, "Uniform refinement level of the source forest")
	adaptCmd.Flags().IntVar(&uniformNx, "nx", 1, "Brick grid size along x (quad/hex only)")
	adaptCmd.Flags().IntVar(&uniformNy, "ny", 1, "Brick grid size along y (quad/hex only)")
	adaptCmd.Flags().IntVar(&uniformNz, "nz", 1, "Brick grid size along z (hex only)")
	adaptCmd.Flags().StringVar(&adaptPredicate, "predicate", "refine-all", "Named predicate: left-edge, refine-all, coarsen-all, level-cap")
	adaptCmd.Flags().BoolVar(&adaptRecursive, "recursive", false, "Run the adapt pass in recursive mode")
	adaptCmd.Flags().IntVar(&adaptTargetLevel, "target-level", 3, "Target level for the level-cap predicate")
	rootCmd.AddCommand(adaptCmd)
}
