package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/arloliu/gridcodec/format"
	"github.com/arloliu/gridcodec/grid"
	"github.com/arloliu/gridcodec/store"
	"github.com/spf13/cobra"
)

func newInfoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info [dir]",
		Short: "Summarize a schematization: grid, active cells, layers, structures and forcing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := opts.openSource(args)
			if err != nil {
				return err
			}
			defer src.close()

			s, err := store.New(src.backend, opts.storeOptions(src.names)...)
			if err != nil {
				return err
			}

			if err := s.Read(cmd.Context(), src.specs...); err != nil {
				return err
			}

			return printInfo(cmd.OutOrStdout(), s)
		},
	}
}

func printInfo(out io.Writer, s *store.Store) error {
	mask := s.Mask()
	idx, err := s.Index()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "grid\t%s\n", mask.Shape())
	fmt.Fprintf(w, "order\t%s\n", idx.Order())
	fmt.Fprintf(w, "active cells\t%d (boundary %d, outflow %d)\n",
		idx.Len(), mask.Count(format.Boundary), mask.Count(format.Outflow))

	if m := s.Manifest(); m != nil {
		fmt.Fprintf(w, "byte order\t%s\n", m.ByteOrder)
		fmt.Fprintf(w, "commit\t%s (%s)\n", m.CommitID, m.CreatedAt.Format("2006-01-02 15:04:05Z07:00"))
	}

	for _, name := range s.LayerNames() {
		layer, err := s.Layer(name)
		if err != nil {
			return err
		}

		st, err := grid.ActiveStats(mask, layer)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "layer %s\t%s fill=%g cells=%d min=%g max=%g mean=%g\n",
			name, layer.Kind(), layer.Fill(), st.Count, st.Min, st.Max, st.Mean)
	}

	for _, kind := range []format.StructureKind{format.ThinDam, format.Weir} {
		list := s.Structures(kind)
		if len(list) == 0 {
			continue
		}

		total := 0.0
		for _, st := range list {
			total += st.Length()
		}
		fmt.Fprintf(w, "structures %s\t%d polylines, %.1f length units\n", kind, len(list), total)
	}

	for _, name := range s.ForcingNames() {
		set, _ := s.Forcing(name)
		fmt.Fprintf(w, "forcing %s\t%s, %d locations, %d samples, origin %s\n",
			name, set.Axis, set.Len(), set.Samples(), set.Origin.UTC().Format("2006-01-02 15:04:05"))
	}

	if obs := s.Observations(); len(obs) > 0 {
		fmt.Fprintf(w, "observations\t%d points\n", len(obs))
	}

	return w.Flush()
}
