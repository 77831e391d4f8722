// Command tokviz loads a HuggingFace-style tokenizer directory and
// round-trips text through it, for inspecting how a vocabulary
// tokenizes and detokenizes a given input.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newCLI().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tokviz",
		Short: "Inspect tokenizer.json/tokenizer.model vocabularies",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SilenceUsage = true
		},
	}

	rootCmd.AddCommand(newEncodeCmd(), newDecodeCmd(), newInfoCmd())
	return rootCmd
}
