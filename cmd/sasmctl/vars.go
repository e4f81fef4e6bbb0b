package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lookbusy-sasm/sasm32/translator"
)

func newVarsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vars <source.sasm>",
		Short: "Print every declared variable's offset and initial bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading source: %w", err)
			}

			res, err := buildResolver(cfg.Translate.LibraryBook)
			if err != nil {
				return err
			}

			asm, err := translator.Translate(string(source), res, translator.Options{
				WithPrologEpilog: cfg.Translate.WithPrologEpilog,
			})
			if err != nil {
				return err
			}

			for name, off := range asm.VariableOffsets {
				initial := asm.InitialVariableBytes[off]
				fmt.Printf("%-20s offset=0x%08x initial=% x\n", name, off, initial)
			}
			return nil
		},
	}
	return cmd
}
