package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inodb/vibe-varnorm/internal/normalize"
	"github.com/inodb/vibe-varnorm/internal/output"
)

func newNormalizeCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "normalize [variant...]",
		Short: "Render variant strings in canonical form",
		Long: `Normalize parses each variant and prints its canonical form, category,
normalization confidence and parsed components. Without arguments,
variants are read from stdin, one per line.`,
		Example: `  vibe-varnorm normalize 'NM_004333.4(BRAF):c.1799T>A' p.Val600Glu V600E
  cut -f2 mentions.tsv | vibe-varnorm normalize`,
		RunE: func(cmd *cobra.Command, args []string) error {
			variants, err := readVariants(args)
			if err != nil {
				return err
			}

			w, closeOut, err := createOutput(cmd.OutOrStdout(), outputFile)
			if err != nil {
				return err
			}
			defer closeOut()

			nw := output.NewNormalizationWriter(w)
			if err := nw.WriteHeader(); err != nil {
				return fmt.Errorf("writing header: %w", err)
			}
			for _, v := range normalize.New().NormalizeAll(variants) {
				if err := nw.Write(v); err != nil {
					return fmt.Errorf("writing variant: %w", err)
				}
			}
			if err := nw.Flush(); err != nil {
				return fmt.Errorf("flushing output: %w", err)
			}
			return closeOut()
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}
