package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/sdifrance/gribindex/export"
	"github.com/spf13/cobra"
)

var (
	dbPath string
	outDir string
)

var exportCmd = &cobra.Command{
	Use:   "export <index>...",
	Short: "Store the catalogs of index files in a SQLite database.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := dbPath
		if path == "" {
			path = cfg.Export.SQLitePath
		}
		if path == "" {
			return fmt.Errorf("no database: set --db or export.sqlite_path")
		}

		cats, err := readAll(ctx, args)
		if err != nil {
			return err
		}

		db, err := export.OpenSQLite(ctx, path)
		if err != nil {
			return err
		}
		defer db.Close()
		for _, cat := range cats {
			if err := export.WriteCatalog(ctx, db, cat); err != nil {
				return err
			}
		}

		summaries, err := export.Summaries(ctx, db)
		if err != nil {
			return err
		}
		for _, s := range summaries {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tedition %d\t%d records\t%d geometries\n",
				s.ID, s.Location, s.Edition, s.RecordCount, s.GeometryCount)
		}
		return nil
	},
}

var footprintsCmd = &cobra.Command{
	Use:   "footprints <index>",
	Short: "Write the lat/lon grid footprints of an index file to a shapefile.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cats, err := readAll(cmd.Context(), args)
		if err != nil {
			return err
		}
		cat := cats[0]

		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}
		path := filepath.Join(outDir, shapefileName(cat.Location))
		n, err := export.WriteFootprints(path, cat)
		if err != nil {
			return err
		}
		if n == 0 {
			glog.Warningf("%s has no unprojected geometries", cat.Location)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d footprints to %s\n", n, path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database to write (default export.sqlite_path)")
	footprintsCmd.Flags().StringVar(&outDir, "out", ".", "output directory")
}

// shapefileName maps gfs.grib2.gbx9 to gfs.grib2.shp.
func shapefileName(location string) string {
	base := filepath.Base(location)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".shp"
}
