package main

import (
	"fmt"

	"github.com/arloliu/gridcodec/format"
	"github.com/arloliu/gridcodec/store"
	"github.com/spf13/cobra"
)

func newArchiveCmd(opts *rootOptions) *cobra.Command {
	var (
		compression string
		prefix      string
		restore     bool
	)

	cmd := &cobra.Command{
		Use:   "archive <dir> <db>",
		Short: "Copy a schematization directory into a badger archive, or back with --restore",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := format.ParseCompression(compression)
			if err != nil {
				return err
			}

			dir, err := store.NewDirBackend(args[0])
			if err != nil {
				return err
			}

			bopts := []store.BadgerOption{store.WithCompression(ct)}
			if prefix != "" {
				bopts = append(bopts, store.WithPrefix(prefix))
			}

			db, err := store.OpenBadger(args[1], bopts...)
			if err != nil {
				return err
			}
			defer db.Close()

			var from, to store.Backend = dir, db
			if restore {
				from, to = db, dir
			}

			dst, err := transfer(cmd.Context(), opts, from, to)
			if err != nil {
				return err
			}

			verb := "archived"
			if restore {
				verb = "restored"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s commit %s (%d layers)\n", verb, dst.Manifest().CommitID, len(dst.LayerNames()))

			return nil
		},
	}

	cmd.Flags().StringVar(&compression, "compression", "zstd", "value compression (none, zstd, s2, lz4)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "key prefix inside the archive")
	cmd.Flags().BoolVar(&restore, "restore", false, "copy from the archive into the directory")

	return cmd
}
