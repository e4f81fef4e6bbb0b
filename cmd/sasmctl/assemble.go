package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lookbusy-sasm/sasm32/resolver"
	"github.com/lookbusy-sasm/sasm32/translator"
)

func newAssembleCmd() *cobra.Command {
	var outPath string
	var noPrologEpilog bool

	cmd := &cobra.Command{
		Use:   "assemble <source.sasm>",
		Short: "Translate a SASM source file into a flat machine-code buffer",
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
				WithPrologEpilog: cfg.Translate.WithPrologEpilog && !noPrologEpilog,
			})
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = args[0] + ".bin"
			}
			if err := os.WriteFile(outPath, asm.Code, 0644); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}

			fmt.Printf("assembled %d bytes -> %s\n", len(asm.Code), outPath)
			if cfg.Output.ShowVariableOffsets {
				for name, off := range asm.VariableOffsets {
					fmt.Printf("  %-20s 0x%08x\n", name, off)
				}
			}
			if cfg.Output.HexDump {
				fmt.Println(hex.Dump(asm.Code))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file path (defaults to <source>.bin)")
	cmd.Flags().BoolVar(&noPrologEpilog, "no-prolog", false, "skip the implicit prolog/epilog wrapping")
	return cmd
}

func buildResolver(bookPath string) (*resolver.StaticResolver, error) {
	if bookPath == "" {
		return resolver.NewStaticResolver(nil), nil
	}
	if _, err := os.Stat(bookPath); os.IsNotExist(err) {
		return resolver.NewStaticResolver(nil), nil
	}
	books, err := resolver.LoadBooks(bookPath)
	if err != nil {
		return nil, fmt.Errorf("loading library book: %w", err)
	}
	return resolver.NewStaticResolver(books), nil
}
