package main

import (
	"context"
	"fmt"

	"github.com/arloliu/gridcodec/endian"
	"github.com/arloliu/gridcodec/format"
	"github.com/arloliu/gridcodec/store"
	"github.com/spf13/cobra"
)

func newRewriteCmd(opts *rootOptions) *cobra.Command {
	var byteOrder, order string

	cmd := &cobra.Command{
		Use:   "rewrite <src-dir> <dst-dir>",
		Short: "Re-encode a schematization with another byte or traversal order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := endian.Parse(byteOrder)
			if err != nil {
				return err
			}

			traversal, err := format.ParseTraversalOrder(order)
			if err != nil {
				return err
			}

			from, err := store.NewDirBackend(args[0])
			if err != nil {
				return err
			}

			to, err := store.NewDirBackend(args[1])
			if err != nil {
				return err
			}

			dst, err := transfer(cmd.Context(), opts, from, to,
				store.WithEndian(engine), store.WithTraversalOrder(traversal))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "rewrote %s -> %s (%s, %s, commit %s)\n",
				args[0], args[1], endian.Name(engine), traversal, dst.Manifest().CommitID)

			return nil
		},
	}

	cmd.Flags().StringVar(&byteOrder, "byte-order", "little", "byte order of the output (little, big, native)")
	cmd.Flags().StringVar(&order, "order", format.RowMajor.String(), "traversal order of the output index")

	return cmd
}

// transfer reads everything on from and writes it to to with dstOpts applied.
func transfer(ctx context.Context, opts *rootOptions, from, to store.Backend, dstOpts ...store.Option) (*store.Store, error) {
	src, err := store.New(from, store.WithLogger(opts.log))
	if err != nil {
		return nil, err
	}

	if err := src.Read(ctx); err != nil {
		return nil, err
	}

	dst, err := store.New(to, append([]store.Option{store.WithLogger(opts.log)}, dstOpts...)...)
	if err != nil {
		return nil, err
	}

	if err := dst.SetMask(src.Mask()); err != nil {
		return nil, err
	}

	for _, name := range src.LayerNames() {
		layer, err := src.Layer(name)
		if err != nil {
			return nil, err
		}

		if err := dst.RegisterLayer(name, layer); err != nil {
			return nil, err
		}
	}

	for _, kind := range []format.StructureKind{format.ThinDam, format.Weir} {
		if err := dst.SetStructures(kind, src.Structures(kind)); err != nil {
			return nil, err
		}
	}

	for _, name := range src.ForcingNames() {
		set, _ := src.Forcing(name)
		if err := dst.SetForcing(name, set); err != nil {
			return nil, err
		}
	}

	if err := dst.SetObservations(src.Observations()); err != nil {
		return nil, err
	}

	if err := dst.Write(ctx); err != nil {
		return nil, err
	}

	return dst, nil
}
