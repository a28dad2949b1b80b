package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

// NewRootCommand builds the wikiquiz command tree.
func NewRootCommand() *cobra.Command {
	var output string

	rootCmd := &cobra.Command{
		Use:           "wikiquiz",
		Short:         "Structure Wikipedia articles and inspect stored quizzes",
		SilenceUsage:  true,
		SilenceErrors: false,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch strings.ToLower(output) {
			case outputJSON, outputYAML:
				return nil
			default:
				return fmt.Errorf("unsupported output format %q (use json or yaml)", output)
			}
		},
	}
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", outputJSON, "output format: json or yaml")

	rootCmd.AddCommand(NewStructureCommand(&output))
	rootCmd.AddCommand(NewHistoryCommand(&output))
	return rootCmd
}

// writeOutput renders v as indented JSON or as YAML using the JSON field names.
func writeOutput(w io.Writer, format string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	if strings.ToLower(format) != outputYAML {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return enc.Close()
}
