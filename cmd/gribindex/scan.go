package main

import (
	"fmt"

	"github.com/sdifrance/gribindex/gribio"
	"github.com/spf13/cobra"
)

var checkIndex string

var scanCmd = &cobra.Command{
	Use:   "scan <gribfile>",
	Short: "List the messages of a GRIB data file.",
	Long: `scan lists the messages of a GRIB data file with their offsets. With
--index it also checks that every record of the index points at a message
field of the file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rc, err := store.Open(ctx, args[0])
		if err != nil {
			return err
		}
		defer rc.Close()

		f, err := gribio.Scan(rc)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, m := range f.Messages {
			fmt.Fprintf(out, "%d\tGRIB%d\tdiscipline %d\t%d bytes\n", m.Offset, m.Edition, m.Discipline, m.Length)
			for _, fld := range m.Fields {
				fmt.Fprintf(out, "\t%d-%d\tgrid %d\tsections %d/%d/%d\n",
					fld.Category, fld.ParamNumber, fld.GdsKey, fld.GridOffset, fld.ProductOffset, fld.DataOffset)
			}
		}

		if checkIndex == "" {
			return nil
		}
		cats, err := readAll(ctx, []string{checkIndex})
		if err != nil {
			return err
		}
		mismatches := f.Check(cats[0])
		for _, m := range mismatches {
			fmt.Fprintln(out, m)
		}
		if len(mismatches) > 0 {
			return fmt.Errorf("%s: %d of %d records do not match %s",
				checkIndex, len(mismatches), cats[0].RecordCount(), args[0])
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVar(&checkIndex, "index", "", "index file to check against the data file")
}
