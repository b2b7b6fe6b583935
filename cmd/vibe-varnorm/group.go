package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vibe-varnorm/internal/equiv"
	"github.com/inodb/vibe-varnorm/internal/output"
)

func newGroupCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "group [variant...]",
		Short: "Group variant strings that denote the same variant",
		Long: `Group partitions variants into equivalence classes by their canonical
form. Variants that do not normalize with at least --threshold confidence
only group with literal (case-insensitive) duplicates. Without arguments,
variants are read from stdin, one per line.`,
		Example: `  vibe-varnorm group p.Val600Glu V600E 'BRAF p.V600E' rs113488022`,
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

			g := equiv.New(viper.GetFloat64(keyEquivThreshold))
			gw := output.NewGroupWriter(w)
			if err := gw.WriteHeader(); err != nil {
				return fmt.Errorf("writing header: %w", err)
			}
			if err := gw.WriteGroups(g.Classes(variants)); err != nil {
				return fmt.Errorf("writing groups: %w", err)
			}
			if err := gw.Flush(); err != nil {
				return fmt.Errorf("flushing output: %w", err)
			}
			return closeOut()
		},
	}

	cmd.Flags().Float64("threshold", equiv.DefaultThreshold, "Minimum normalization confidence for canonical comparison")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.PreRunE = bindFlags(map[string]string{keyEquivThreshold: "threshold"})

	return cmd
}
