// cpuprof-split splits a large v8 .cpuprofile trace into N smaller traces
// covering disjoint sample ranges, each independently loadable in DevTools.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vmtrace/cpuprof/format"
	"github.com/vmtrace/cpuprof/split"
)

var (
	compressionName string
	verbose         bool
)

var rootCmd = &cobra.Command{
	Use:          "cpuprof-split <cpuprofile> <out-dir> <chunks>",
	Short:        "Split a v8 .cpuprofile trace into independently loadable parts",
	Args:         cobra.ExactArgs(3),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		chunkCount, err := strconv.Atoi(args[2])
		if err != nil || chunkCount < 1 {
			return fmt.Errorf("invalid chunk count %q", args[2])
		}

		compression, err := format.ParseCompression(compressionName)
		if err != nil {
			return err
		}

		logger := zap.NewNop()
		if verbose {
			logger, err = zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
		}

		results, err := split.Run(args[0], args[1], chunkCount, split.Options{
			Compression: compression,
			Logger:      logger,
		})
		if err != nil {
			return err
		}

		for _, result := range results {
			fmt.Printf("%s: %d samples, %d nodes, %d bytes\n",
				result.Path, result.Samples, result.Nodes, result.Bytes)
		}

		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&compressionName, "compression", "none", "chunk output compression: none, zstd, s2 or lz4")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log per-chunk progress")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
