// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/ik5/melfeat/dataset"
	"github.com/ik5/melfeat/store"
)

func newInspectCmd() *cobra.Command {
	var metaOnly bool

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print the shape and label histogram of a dataset artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.OutOrStdout(), args[0], metaOnly)
		},
	}

	cmd.Flags().BoolVar(&metaOnly, "meta-only", false, "read only the YAML sidecar")

	return cmd
}

func runInspect(out io.Writer, path string, metaOnly bool) error {
	var (
		meta store.Meta
		err  error
	)

	if metaOnly {
		meta, err = store.LoadMeta(path)
	} else {
		var ds *dataset.Dataset
		ds, meta, err = store.Load(path)
		if err == nil {
			// the arrays are authoritative over the stored summary
			shape := ds.Features.Shape()
			meta.Shape = [4]int{shape.N, shape.Bands, shape.Frames, shape.Channels}
			meta.LabelCounts = ds.LabelCounts()
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "artifact:    %s\n", path)
	fmt.Fprintf(out, "version:     %d\n", meta.Version)
	fmt.Fprintf(out, "created:     %s\n", meta.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(out, "root:        %s\n", meta.Root)
	fmt.Fprintf(out, "folders:     %v\n", meta.Folders)
	fmt.Fprintf(out, "sample rate: %d\n", meta.SampleRate)
	fmt.Fprintf(out, "shape:       (%d, %d, %d, %d)\n", meta.Shape[0], meta.Shape[1], meta.Shape[2], meta.Shape[3])
	fmt.Fprintf(out, "clips:       %d (%d failed)\n", meta.Clips, meta.Failed)
	fmt.Fprintln(out, "labels:")

	for _, label := range slices.Sorted(maps.Keys(meta.LabelCounts)) {
		fmt.Fprintf(out, "  %3d  %d\n", label, meta.LabelCounts[label])
	}

	return nil
}
