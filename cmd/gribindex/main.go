// Command gribindex decodes GRIB index files and exports their catalogs.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/sdifrance/gribindex"
)

// Exit codes.
const (
	exitOK = 0
	// exitObsolete means the index must be rebuilt from its GRIB file.
	exitObsolete = 3
)

func main() {
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err == nil {
		glog.Flush()
		os.Exit(exitOK)
	}
	if errors.Is(err, gribindex.ErrIndexObsolete) {
		glog.Error(err)
		glog.Flush()
		fmt.Fprintln(os.Stderr, "gribindex: the index uses an obsolete format and was removed; regenerate it from its GRIB file")
		os.Exit(exitObsolete)
	}
	glog.Exitf("gribindex: %v", err)
}
