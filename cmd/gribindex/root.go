package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/golang/glog"
	"github.com/joho/godotenv"
	"github.com/sdifrance/gribindex"
	"github.com/sdifrance/gribindex/catalog"
	"github.com/sdifrance/gribindex/config"
	"github.com/sdifrance/gribindex/storage"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	configFile string
	storeKind  string
	storeRoot  string
	jobs       int

	// cfg and store are set before any subcommand runs.
	cfg   *config.Config
	store storage.Store
)

var rootCmd = &cobra.Command{
	Use:   "gribindex",
	Short: "Decode GRIB index files.",
	Long: `gribindex reads the binary and text index files written next to GRIB
data files, and prints or exports the records and grid geometries they
catalog.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return startup(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd, exportCmd, footprintsCmd, scanCmd)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "configuration file location")
	flags.StringVar(&storeKind, "store", "local", "index store: local or minio")
	flags.StringVar(&storeRoot, "root", "", "directory relative index names are resolved against (local store)")
	flags.IntVar(&jobs, "jobs", 4, "number of indexes decoded at once")
}

// startup loads the environment and configuration and opens the index store.
func startup(ctx context.Context) error {
	// glog complains unless the standard flag set has been parsed; pflag
	// already set its values.
	if !flag.Parsed() {
		flag.CommandLine.Parse(nil)
	}

	if err := godotenv.Load(); err != nil {
		glog.V(1).Infof("no .env file loaded: %v", err)
	}

	var err error
	if cfg, err = config.Load(configFile); err != nil {
		return err
	}

	switch storeKind {
	case "local":
		store = storage.NewLocal(storeRoot)
	case "minio":
		mc, err := cfg.Storage()
		if err != nil {
			return err
		}
		if store, err = storage.NewMinIO(ctx, mc); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown store %q, want local or minio", storeKind)
	}
	return nil
}

// readAll decodes the indexes at locations concurrently and returns their
// catalogs in argument order. The first failure cancels the other reads.
func readAll(ctx context.Context, locations []string) ([]*catalog.Catalog, error) {
	reader := gribindex.NewReader(store, cfg.ReaderOptions())
	out := make([]*catalog.Catalog, len(locations))

	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, loc := range locations {
		i, loc := i, loc
		g.Go(func() error {
			cat, err := reader.Read(ctx, loc)
			if err != nil {
				return fmt.Errorf("reading %s: %w", loc, err)
			}
			out[i] = cat
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
