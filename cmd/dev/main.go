package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"dataportal/adapters/excel"
	"dataportal/domain/dataset"
	"dataportal/internal/config"
	"dataportal/internal/container"
	"dataportal/internal/errors"
	"dataportal/internal/migration"

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
		Use:           "dataportal-dev",
		Short:         "Development tools for the dataset portal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newSeedCmd(),
		newMigrateCmd(),
	)
	return rootCmd
}

func newSeedCmd() *cobra.Command {
	var count int
	var seed int64
	var out string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate synthetic datasets for development",
		Long: `Generate synthetic dataset records.

With --out the records are written to a CSV or XLSX sheet; otherwise they are
upserted into the SQL store named by DATASET_SOURCE.

Example: dataportal-dev seed --count 60 --out data/datasets/datasets.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return errors.InvalidInput("--count must be positive")
			}
			records := syntheticRecords(count, seed)

			if out != "" {
				if err := excel.WriteDatasets(out, records); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d datasets to %s\n", len(records), out)
				return nil
			}

			return withContainer(cmd.Context(), func(c *container.Container) error {
				if c.Store == nil {
					return errors.ConfigInvalid("seeding without --out needs DATASET_SOURCE=sqlite or postgres")
				}
				n, err := c.Store.Upsert(cmd.Context(), records)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d datasets\n", n)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&count, "count", 60, "Number of datasets to generate")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic output")
	cmd.Flags().StringVar(&out, "out", "", "Write a CSV or XLSX sheet instead of the SQL store")

	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations to the configured SQL store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(c *container.Container) error {
				if c.DB == nil {
					return errors.ConfigInvalid("the file source has no schema to migrate")
				}
				// Opening the store already migrated it.
				fmt.Fprintf(cmd.OutOrStdout(), "schema at %s\n", migration.NewRunner().Version())
				return nil
			})
		},
	}
}

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

var regions = []struct {
	acronym     string
	descriptive string
}{
	{"MOp", "Primary motor area"},
	{"SSp", "Primary somatosensory area"},
	{"ACA", "Anterior cingulate area"},
	{"HIP", "Hippocampal region"},
	{"PFC", "Prefrontal cortex"},
	{"STR", "Striatum"},
}

// syntheticRecords returns count records with increasing date_added.
// About a third carry no snATAC data.
func syntheticRecords(count int, seed int64) []dataset.Record {
	rng := rand.New(rand.NewSource(seed))
	records := make([]dataset.Record, count)
	for i := range records {
		region := regions[rng.Intn(len(regions))]
		slice := rng.Intn(18) + 1
		rec := dataset.Record{
			DatasetName:           fmt.Sprintf("CEMBA_%d%c_%03d", slice, 'A'+rune(rng.Intn(4)), i),
			Sex:                   []string{"M", "F"}[rng.Intn(2)],
			MethylationCellCount:  dataset.NewCount(int64(1000 + rng.Intn(9000))),
			ABARegionsAcronym:     region.acronym,
			Slice:                 dataset.Text(fmt.Sprint(slice)),
			DateAdded:             fmt.Sprintf("2018-%02d-%02d", i/28%12+1, i%28+1),
			Description:           region.descriptive + " dissection",
			ABARegionsDescriptive: region.descriptive,
		}
		if rng.Intn(3) > 0 {
			rec.SnATACCellCount = dataset.NewCount(int64(500 + rng.Intn(4000)))
			rec.SnATACDatasets = fmt.Sprintf("CEMBA18%04d_%d", i, slice)
		}
		records[i] = rec
	}
	return records
}
