package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lookbusy-sasm/sasm32/translator"
)

// newRestoreDemoCmd assembles a source file, corrupts every declared
// variable's bytes, then restores them and confirms the buffer matches
// the original assembly.
func newRestoreDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore-demo <source.sasm>",
		Short: "Assemble, mutate every declared variable, then restore and verify",
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

			original := make([]byte, len(asm.Code))
			copy(original, asm.Code)

			for off, bytes := range asm.InitialVariableBytes {
				for i := range bytes {
					asm.Code[off+i] = 0xCC
				}
			}

			asm.RestoreVariables()

			for i := range original {
				if original[i] != asm.Code[i] {
					return fmt.Errorf("restore mismatch at offset 0x%x: want 0x%02x, got 0x%02x", i, original[i], asm.Code[i])
				}
			}

			fmt.Printf("restored %d variables successfully across %d bytes\n", len(asm.InitialVariableBytes), len(asm.Code))
			return nil
		},
	}
	return cmd
}
