package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newGenerateDocsCmd() *cobra.Command {
	var (
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate command documentation",
		Long: `Generate markdown documentation for all gsamples commands.
This command walks the registered command tree and prints each command's
usage and flags, so the reference always matches the binary.`,
		Args:   cobra.NoArgs,
		Hidden: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			markdown := generateCommandsMarkdown(cmd.Root())

			if outputFile != "" {
				if err := os.WriteFile(outputFile, []byte(markdown), 0644); err != nil {
					return fmt.Errorf("failed to write output file: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Documentation written to: %s\n", outputFile)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), markdown)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func generateCommandsMarkdown(root *cobra.Command) string {
	var sb strings.Builder

	sb.WriteString("# Command Reference\n\n")
	sb.WriteString("**Note:** This documentation is automatically generated from the command definitions.\n\n")

	commands := runnableCommands(root)

	sb.WriteString("## Table of Contents\n\n")
	for _, c := range commands {
		path := c.CommandPath()
		sb.WriteString(fmt.Sprintf("- [%s](#%s)\n", path, strings.ReplaceAll(path, " ", "-")))
	}
	sb.WriteString("\n")

	if global := flagsMarkdown(root.PersistentFlags()); global != "" {
		sb.WriteString("## Global Flags\n\n")
		sb.WriteString(global)
		sb.WriteString("\n")
	}

	for _, c := range commands {
		sb.WriteString(generateCommandMarkdown(c))
		sb.WriteString("\n")
	}

	return sb.String()
}

// runnableCommands returns every visible command with a Run function,
// sorted by command path.
func runnableCommands(root *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		for _, sub := range c.Commands() {
			if !sub.IsAvailableCommand() {
				continue
			}
			if sub.Runnable() {
				out = append(out, sub)
			}
			walk(sub)
		}
	}
	walk(root)

	sort.Slice(out, func(i, j int) bool {
		return out[i].CommandPath() < out[j].CommandPath()
	})
	return out
}

func generateCommandMarkdown(c *cobra.Command) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("### %s\n\n", c.CommandPath()))

	desc := c.Long
	if desc == "" {
		desc = c.Short
	}
	if desc != "" {
		sb.WriteString(desc + "\n\n")
	}

	sb.WriteString(fmt.Sprintf("```\n%s\n```\n\n", c.UseLine()))

	if local := flagsMarkdown(c.LocalNonPersistentFlags()); local != "" {
		sb.WriteString("**Flags:**\n")
		sb.WriteString(local)
		sb.WriteString("\n")
	}

	return sb.String()
}

func flagsMarkdown(fs *pflag.FlagSet) string {
	var sb strings.Builder
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" {
			return
		}
		required := "optional"
		if ann, ok := f.Annotations[cobra.BashCompOneRequiredFlag]; ok && len(ann) > 0 && ann[0] == "true" {
			required = "required"
		}
		sb.WriteString(fmt.Sprintf("- `--%s` (%s, %s): %s", f.Name, f.Value.Type(), required, f.Usage))
		if f.DefValue != "" && f.DefValue != "false" {
			sb.WriteString(fmt.Sprintf(" (default `%s`)", f.DefValue))
		}
		sb.WriteString("\n")
	})
	return sb.String()
}
