package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vibe-varnorm/internal/equiv"
	"github.com/inodb/vibe-varnorm/internal/output"
)

func newCompareCmd() *cobra.Command {
	var (
		predictedFile string
		referenceFile string
		outputFile    string
		showAll       bool
	)

	cmd := &cobra.Command{
		Use:   "compare --predicted FILE --reference FILE",
		Short: "Compare predicted variants against a reference list",
		Long: `Compare classifies each predicted and reference variant as match,
normalized_match, predicted_only or reference_only, then prints a summary
with set overlap (Jaccard, precision, recall) over normalized forms.
Both files hold one variant per line; '#' lines are ignored.`,
		Example: `  vibe-varnorm compare --predicted predicted.txt --reference gold.txt
  vibe-varnorm compare --all --predicted predicted.txt --reference gold.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			predicted, err := readVariantFile(predictedFile)
			if err != nil {
				return fmt.Errorf("reading predicted variants: %w", err)
			}
			reference, err := readVariantFile(referenceFile)
			if err != nil {
				return fmt.Errorf("reading reference variants: %w", err)
			}

			w, closeOut, err := createOutput(cmd.OutOrStdout(), outputFile)
			if err != nil {
				return err
			}
			defer closeOut()

			cw := output.NewCompareWriter(w, equiv.New(viper.GetFloat64(keyEquivThreshold)), showAll)
			if err := cw.WriteHeader(); err != nil {
				return fmt.Errorf("writing header: %w", err)
			}
			if err := cw.WriteComparison(predicted, reference); err != nil {
				return fmt.Errorf("writing comparison: %w", err)
			}
			cw.WriteSummary(cmd.ErrOrStderr())
			return closeOut()
		},
	}

	f := cmd.Flags()
	f.StringVar(&predictedFile, "predicted", "", "File of predicted variants")
	f.StringVar(&referenceFile, "reference", "", "File of reference variants")
	f.StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	f.BoolVar(&showAll, "all", false, "Show all variants (default: differences only)")
	f.Float64("threshold", equiv.DefaultThreshold, "Minimum normalization confidence for canonical comparison")
	cmd.MarkFlagRequired("predicted")
	cmd.MarkFlagRequired("reference")
	cmd.PreRunE = bindFlags(map[string]string{keyEquivThreshold: "threshold"})

	return cmd
}
