package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"iris_api/internal/domain/service/training"
	"iris_api/internal/infrastructure/dataset"
)

func trainCmd() *cobra.Command {
	opts := training.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit the classifier and persist it",
		Long: "Splits the dataset into stratified train and test parts, fits a multinomial " +
			"logistic regression, prints the evaluation report and writes the model file.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := training.NewService(dataset.Source{}).Train(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("training failed: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), report.String())

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.DataPath, "data", opts.DataPath, "CSV dataset to train on (default: built-in iris data)")
	flags.StringVar(&opts.ModelPath, "out", opts.ModelPath, "where to write the model file")
	flags.Float64Var(&opts.TestSize, "test-size", opts.TestSize, "share of samples held out for evaluation")
	flags.Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed of the train/test split")
	flags.IntVar(&opts.Params.MaxIter, "max-iter", opts.Params.MaxIter, "solver iteration limit")
	flags.Float64Var(&opts.Params.C, "c", opts.Params.C, "inverse L2 regularization strength")

	return cmd
}
