package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ovtok/tokenizers/convert"
)

func loadProcessor(dir string) (*convert.Tokenizer, error) {
	return convert.Load(os.DirFS(dir))
}

func newEncodeCmd() *cobra.Command {
	var addSpecials bool

	cmd := &cobra.Command{
		Use:   "encode <tokenizer-dir> <text>",
		Short: "Tokenize text and print the resulting token IDs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := loadProcessor(args[0])
			if err != nil {
				return err
			}

			proc, err := tok.Build()
			if err != nil {
				return err
			}

			ids, err := proc.Encode(args[1], addSpecials)
			if err != nil {
				return err
			}

			for i, id := range ids {
				if i > 0 {
					fmt.Print(" ")
				}
				fmt.Print(id)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().BoolVar(&addSpecials, "add-specials", false, "prepend/append the vocabulary's BOS/EOS tokens")
	return cmd
}

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <tokenizer-dir> <id> [id...]",
		Short: "Detokenize a sequence of token IDs and print the resulting text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := loadProcessor(args[0])
			if err != nil {
				return err
			}

			proc, err := tok.Build()
			if err != nil {
				return err
			}

			ids := make([]int32, 0, len(args)-1)
			for _, a := range args[1:] {
				var id int32
				if _, err := fmt.Sscanf(a, "%d", &id); err != nil {
					return fmt.Errorf("invalid token id %q: %w", a, err)
				}
				ids = append(ids, id)
			}

			text, err := proc.Decode(ids)
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		},
	}
	return cmd
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <tokenizer-dir>",
		Short: "Print the resolved tokenizer model kind and vocabulary size",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := loadProcessor(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("model: %s\n", tok.Model)
			fmt.Printf("vocab size: %d\n", len(tok.Tokens))
			fmt.Printf("merges: %d\n", len(tok.Merges))
			for _, sv := range tok.SpecialVocabulary {
				fmt.Printf("special %s: id=%d content=%q add_token=%v\n", sv.Type, sv.ID, sv.Content, sv.AddToken)
			}
			return nil
		},
	}
	return cmd
}
