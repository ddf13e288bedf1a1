package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"dataportal/adapters/excel"
	"dataportal/internal/config"
	"dataportal/internal/container"
	"dataportal/internal/errors"
	"dataportal/ui/datatable"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dataportal-cli",
		Short:         "Inspect and load the dataset catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	datasetsCmd := &cobra.Command{
		Use:   "datasets",
		Short: "Dataset catalog commands",
	}
	datasetsCmd.AddCommand(
		newListCmd(),
		newShowCmd(),
		newSummaryCmd(),
		newImportCmd(),
	)
	rootCmd.AddCommand(datasetsCmd)
	return rootCmd
}

// withContainer loads configuration from the environment and runs fn
// against a container that is shut down afterwards.
func withContainer(ctx context.Context, fn func(*container.Container) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c, err := container.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Shutdown()
	return fn(c)
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List datasets, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(c *container.Container) error {
				records, err := c.Catalog.ListDatasets(cmd.Context())
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "DATASET\tSEX\tMC CELLS\tATAC CELLS\tREGIONS\tSLICE\tADDED")
				for _, rec := range records {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
						rec.DatasetName, rec.Sex, rec.MethylationCellCount, rec.SnATACCellCount,
						rec.ABARegionsAcronym, rec.Slice, rec.DateAdded)
				}
				return w.Flush()
			})
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <dataset>",
		Short: "Print the detail panel markup of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(c *container.Container) error {
				rec, err := c.Catalog.Find(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), datatable.Format(rec))
				return err
			})
		},
	}
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print catalog totals as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(c *container.Container) error {
				summary, err := c.Catalog.Summary(cmd.Context())
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), summary)
			})
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load a CSV or XLSX dataset sheet into the SQL store",
		Long: `Load a CSV or XLSX dataset sheet into the configured SQL store.

Rows are upserted by dataset_name. Requires DATASET_SOURCE=sqlite or postgres.

Example: DATASET_SOURCE=sqlite dataportal-cli datasets import data/datasets/datasets.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(c *container.Container) error {
				if c.Store == nil {
					return errors.ConfigInvalid("import needs DATASET_SOURCE=sqlite or postgres")
				}
				records, err := excel.NewFileSource(args[0]).ListDatasets(cmd.Context())
				if err != nil {
					return err
				}
				n, err := c.Store.Upsert(cmd.Context(), records)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d datasets from %s\n", n, args[0])
				return nil
			})
		},
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
