package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sdifrance/gribindex/catalog"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <index>...",
	Short: "Print the attributes, records and geometries of index files.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cats, err := readAll(cmd.Context(), args)
		if err != nil {
			return err
		}
		for _, cat := range cats {
			if err := printCatalog(cmd.OutOrStdout(), cat); err != nil {
				return err
			}
		}
		return nil
	},
}

func printCatalog(out io.Writer, cat *catalog.Catalog) error {
	fmt.Fprintf(out, "# %s (id %s, edition %d, format %q)\n",
		cat.Location, cat.ID, cat.Edition(), cat.IndexVersion())
	for _, a := range cat.Attributes() {
		fmt.Fprintf(out, "%s = %s\n", a.Name, a.Value)
	}

	fmt.Fprintf(out, "\n%d records\n", cat.RecordCount())
	w := tabwriter.NewWriter(out, 0, 4, 1, ' ', 0)
	fmt.Fprintln(w, "#\tparameter\tlevel\tref time\tvalid time\tinterval\tsuffix\tgrid\toffsets")
	for i, r := range cat.Records {
		fmt.Fprintf(w, "%d\t%d-%d-%d\t%d:%g\t%s\t%s\t%s\t%s\t%d\t%d/%d\n",
			i, r.Discipline, r.Category, r.ParamNumber,
			r.LevelType1, r.LevelValue1,
			r.RefTime.Format(time.RFC3339), validTime(r),
			dash(r.MakeIntervalName()), dash(r.MakeSuffix()),
			r.GdsKey, r.Offset1, r.Offset2)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	geoms := cat.Geometries()
	fmt.Fprintf(out, "\n%d geometries\n", len(geoms))
	for _, g := range geoms {
		params := make([]string, 0, g.Len())
		for _, name := range g.Names() {
			v, _ := g.Param(name)
			params = append(params, name+"="+v)
		}
		fmt.Fprintf(out, "%d (edition %d template %d): %s\n", g.Key, g.Edition, g.Template, strings.Join(params, " "))
	}
	_, err := fmt.Fprintln(out)
	return err
}

func validTime(r catalog.Record) string {
	if r.ValidTime.IsZero() {
		return "-"
	}
	return r.ValidTime.Format(time.RFC3339)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
