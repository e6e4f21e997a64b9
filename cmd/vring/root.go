package main

import (
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Giulio2002/vring"
	"github.com/Giulio2002/vring/mmap"
)

// ringFlags are the geometry flags shared by every subcommand.
type ringFlags struct {
	minSize  int
	mappings int
	retries  int
}

func (f *ringFlags) register(fs *pflag.FlagSet, defaultMappings int) {
	fs.IntVar(&f.minSize, "min-size", 16384, "minimum bytes per alias, rounded up to the allocation granularity")
	fs.IntVar(&f.mappings, "mappings", defaultMappings, "number of aliases of the backing store")
	fs.IntVar(&f.retries, "retries", vring.DefaultRetryLimit, "reservation attempts before giving up")
	fs.SortFlags = false
}

func (f *ringFlags) options() *vring.Options {
	opts := vring.DefaultOptions()
	opts.MappingCount = f.mappings
	opts.RetryLimit = f.retries
	return &opts
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:          "vring",
		Short:        "Inspect virtual-memory mirrored ring buffers",
		Version:      vring.GetVersionInfo().Describe,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger := logrus.New()
			logger.SetOutput(cmd.ErrOrStderr())
			logger.SetLevel(lvl)
			logger.SetFormatter(&logrus.TextFormatter{
				FullTimestamp:   true,
				PadLevelText:    true,
				TimestampFormat: "2006/01/02 15:04:05",
			})
			vring.SetLogger(logger)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warning", "log level (trace, debug, info, warning, error)")

	root.AddCommand(
		newProbeCmd(),
		newSpillCmd(),
		newFormatCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show current version info",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s/%s), granularity %d\n",
				vring.Version(), runtime.GOOS, runtime.GOARCH, mmap.System().Granularity())
			return nil
		},
	}
}
