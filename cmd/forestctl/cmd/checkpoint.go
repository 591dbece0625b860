package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meshforest/forest/internal/checkpoint"
	"github.com/meshforest/forest/pkg/scheme"
)

var (
	checkpointName    string
	checkpointDBPath  string
	checkpointDataDir string
)

var checkpointCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "Save or load a forest snapshot",
}

var checkpointSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Build a uniform forest and save it as a named snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, _, err := buildUniform()
		if err != nil {
			return err
		}
		mgr, err := newManager()
		if err != nil {
			return err
		}
		if err := mgr.Save(context.Background(), checkpointName, f); err != nil {
			return err
		}
		fmt.Printf("saved snapshot %q: %d trees, %d elements\n", checkpointName, f.NumLocalTrees(), f.NumLocalElements())
		return nil
	},
}

var checkpointLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load a named snapshot back into a forest and print its stats",
	RunE: func(cmd *cobra.Command, args []string) error {
		class, err := parseClass(uniformClass)
		if err != nil {
			return err
		}
		mesh, err := buildMesh(class, uniformNx, uniformNy, uniformNz)
		if err != nil {
			return err
		}
		mgr, err := newManager()
		if err != nil {
			return err
		}
		f, err := mgr.Load(context.Background(), checkpointName, scheme.NewRegistry(), mesh)
		if err != nil {
			return err
		}
		fmt.Printf("restored snapshot %q: %d trees, %d elements\n", checkpointName, f.NumLocalTrees(), f.NumLocalElements())
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{checkpointSaveCmd, checkpointLoadCmd} {
		c.Flags().StringVar(&checkpointName, "name", "", "Snapshot name (required)")
		c.MarkFlagRequired("name")
		c.Flags().StringVar(&checkpointDBPath, "db", "./forestctl-checkpoints.db", "Path to the sqlite snapshot database")
		c.Flags().StringVar(&checkpointDataDir, "data-dir", "./forestctl-checkpoints", "Local directory backing the blob store")
	}
	checkpointSaveCmd.Flags().StringVar(&uniformClass, "class", "quad", "Element class: line, quad, hex, triangle, tet, prism, pyramid")
	checkpointSaveCmd.Flags().IntVar(&uniformLevel, "level", 2, "Uniform refinement level")
	checkpointSaveCmd.Flags().IntVar(&uniformNx, "nx", 1, "Brick grid size along x (quad/hex only)")
	checkpointSaveCmd.Flags().IntVar(&uniformNy, "ny", 1, "Brick grid size along y (quad/hex only)")
	checkpointSaveCmd.Flags().IntVar(&uniformNz, "nz", 1, "Brick grid size along z (hex only)")
	checkpointLoadCmd.Flags().StringVar(&uniformClass, "class", "quad", "Element class the snapshot's coarse mesh was built with")
	checkpointLoadCmd.Flags().IntVar(&uniformNx, "nx", 1, "Brick grid size along x (quad/hex only)")
	checkpointLoadCmd.Flags().IntVar(&uniformNy, "ny", 1, "Brick grid size along y (quad/hex only)")
	checkpointLoadCmd.Flags().IntVar(&uniformNz, "nz", 1, "Brick grid size along z (hex only)")

	checkpointCmd.AddCommand(checkpointSaveCmd, checkpointLoadCmd)
	rootCmd.AddCommand(checkpointCmd)
}

func newManager() (*checkpoint.Manager, error) {
	db, err := checkpoint.NewGormDB(&checkpoint.DBConfig{Type: "sqlite", Database: checkpointDBPath})
	if err != nil {
		return nil, err
	}
	repo := checkpoint.NewGormSnapshotRepository(db)
	blobs, err := checkpoint.NewBlobStore(nil, checkpointDataDir, false)
	if err != nil {
		return nil, err
	}
	return checkpoint.NewManager(repo, blobs), nil
}

