// Command lnread reads a dated directory from the command line and prints
// a per-file outcome summary plus the combined table shape. It is the CLI
// front end for the directory package.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lntools/config"
	"lntools/directory"
	"lntools/human"
	"lntools/logging"
	"lntools/table"
)

var (
	flagDir     string
	flagStart   string
	flagEnd     string
	flagPattern string
	flagFormat  string
	flagEngine  string
	flagWorkers int
	flagOut     string
)

func main() {
	root := &cobra.Command{
		Use:   "lnread",
		Short: "Read per-date files from a directory into one table",
		Long: `lnread resolves the expected file set for a date range, reads each
existing file in parallel, and concatenates the results. Missing files are
reported but not fatal; a file that fails to parse is skipped and listed.`,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.Flags().StringVar(&flagDir, "dir", "", "directory containing the dated files (required)")
	root.Flags().StringVar(&flagStart, "start", "", "start date (inclusive)")
	root.Flags().StringVar(&flagEnd, "end", "", "end date (inclusive)")
	root.Flags().StringVar(&flagPattern, "pattern", directory.DefaultFilePattern, "filename pattern with a {date} placeholder")
	root.Flags().StringVar(&flagFormat, "format", directory.DefaultDateFormat, "date layout or shortcut (wide, compact, standard)")
	root.Flags().StringVar(&flagEngine, "engine", "", "tabular engine: records or frame (default from config)")
	root.Flags().IntVar(&flagWorkers, "workers", directory.DefaultWorkers, "worker bound for parallel reads")
	root.Flags().StringVar(&flagOut, "out", "", "write the combined table to this CSV file")
	root.MarkFlagRequired("dir")

	if err := root.Execute(); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	registry, err := logging.NewRegistry(cfg.Logging)
	if err != nil {
		return err
	}
	defer registry.Close()

	engine := flagEngine
	if engine == "" {
		engine = cfg.Engine
	}

	opts := directory.Options{
		FilePattern: flagPattern,
		DateFormat:  flagFormat,
		Engine:      table.Engine(engine),
		Workers:     flagWorkers,
		Logger:      registry.Get("lnread"),
	}
	if flagStart != "" {
		opts.Start = flagStart
	}
	if flagEnd != "" {
		opts.End = flagEnd
	}

	result, err := directory.Read(context.Background(), flagDir, opts)
	if err != nil {
		return err
	}

	printSummary(result)

	if flagOut != "" {
		if err := table.WriteCSV(result.Table, flagOut, table.WriteOptions{}); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", flagOut)
	}
	return nil
}

func printSummary(result *directory.Result) {
	ok := color.New(color.FgGreen).SprintFunc()
	warn := color.New(color.FgYellow).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()

	for _, o := range result.Outcomes {
		switch o.Status {
		case directory.StatusOK:
			fmt.Printf("%s %s (%s)\n", ok("✓"), o.Path, human.Unit(float64(o.Table.Len()), "row", 0))
		case directory.StatusEmpty:
			fmt.Printf("%s %s (empty)\n", warn("-"), o.Path)
		case directory.StatusFailed:
			fmt.Printf("%s %s (%v)\n", bad("✗"), o.Path, o.Err)
		}
	}
	for _, name := range result.Missing {
		fmt.Printf("%s %s (missing)\n", warn("?"), name)
	}

	t := result.Table
	fmt.Printf("combined: %s x %s\n",
		human.Comma(int64(t.Len())),
		human.Unit(float64(len(t.Columns())), "column", 0))
}
