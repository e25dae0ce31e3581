package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"codeberg.org/snonux/gptranslate/internal"
	"codeberg.org/snonux/gptranslate/internal/batch"
	"codeberg.org/snonux/gptranslate/internal/config"
	"codeberg.org/snonux/gptranslate/internal/processor"
)

// ProcessorFunc opens the processor a sub-command works on.
type ProcessorFunc func() *processor.Processor

// AddCommands attaches the sub-commands to root. open is called lazily so
// that InitConfig has run before the processor reads its settings.
func AddCommands(root *cobra.Command, flags *Flags, open ProcessorFunc) {
	root.AddCommand(
		newTranslateCommand(flags, open),
		newHistoryCommand(flags, open),
		newConfigCommand(open),
		newValidateKeyCommand(open),
		newModelsCommand(open),
		newVersionCommand(),
	)
}

func newTranslateCommand(flags *Flags, open ProcessorFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate [text]",
		Short: "Translate text from the arguments, a batch file or stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := open()
			if flags.BatchFile != "" {
				return runBatch(cmd.Context(), cmd.OutOrStdout(), p, flags)
			}

			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				text = string(data)
			}

			resp, err := p.Translate(cmd.Context(), text)
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp, flags.JSON)
		},
	}
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "translate every line of a file (blank lines and # comments are skipped)")
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "print results as JSON")
	return cmd
}

// runBatch translates every entry of the batch file. Failed entries are
// reported and skipped; the command fails if any entry failed.
func runBatch(ctx context.Context, w io.Writer, p *processor.Processor, flags *Flags) error {
	entries, err := batch.ReadBatchFile(flags.BatchFile)
	if err != nil {
		return err
	}

	var results []processor.Response
	failed := 0
	for i, entry := range entries {
		log.Info().Int("line", entry.Line).Msgf("translating %d/%d", i+1, len(entries))
		resp, err := p.Translate(ctx, entry.Text)
		if err != nil {
			log.Error().Err(err).Int("line", entry.Line).Msg("batch entry failed")
			failed++
			continue
		}
		results = append(results, resp)
	}

	if flags.JSON {
		if err := writeJSON(w, results); err != nil {
			return err
		}
	} else {
		for _, resp := range results {
			if err := printResponse(w, resp, false); err != nil {
				return err
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d batch entries failed", failed, len(entries))
	}
	return nil
}

func printResponse(w io.Writer, resp processor.Response, asJSON bool) error {
	if asJSON {
		return writeJSON(w, resp)
	}
	_, err := fmt.Fprintf(w, "[%s -> %s]\n%s\n", resp.DetectedLanguage, resp.TargetLanguage, resp.TranslatedText)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newHistoryCommand(flags *Flags, open ProcessorFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent translations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := open().History()
			if err != nil {
				return err
			}
			if flags.Limit > 0 && len(entries) > flags.Limit {
				entries = entries[:flags.Limit]
			}
			if flags.JSON {
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No translations yet")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s -> %s  %s => %s\n",
					e.Timestamp.Local().Format("2006-01-02 15:04"),
					e.DetectedLanguage, e.TargetLanguage,
					internal.Abbreviate(internal.SingleLine(e.OriginalText), 40),
					internal.Abbreviate(internal.SingleLine(e.TranslatedText), 40))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&flags.Limit, "limit", flags.Limit, "number of entries to show (0 for all)")
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "print entries as JSON")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the translation history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := open()
			if !flags.Archive {
				if err := p.ClearHistory(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
				return nil
			}

			archived, err := p.ArchiveHistory()
			if err != nil {
				return err
			}
			if archived == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "History cleared (nothing to archive)")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "History archived to %s\n", archived)
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&flags.Archive, "archive", false, "move the history file to the archive directory instead of deleting it")
	cmd.AddCommand(clearCmd)

	return cmd
}

func newConfigCommand(open ProcessorFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the stored configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the configuration with API keys masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), maskedConfig(open().Config()))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the location of config.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := open().ConfigPath()
			if path == "" {
				return errors.New("no data directory available")
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <field> <value>",
		Short: "Change one field, e.g. config set target_language German",
		Long:  "Change one field by its config.json name. Fields: " + strings.Join(config.Fields(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := open().SetConfigField(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s updated\n", args[0])
			return nil
		},
	})

	return cmd
}

func maskedConfig(cfg *config.Config) *config.Config {
	cfg.OpenAIAPIKey = MaskKey(cfg.OpenAIAPIKey)
	cfg.AzureAPIKey = MaskKey(cfg.AzureAPIKey)
	return cfg
}

// MaskKey hides all but the last four characters of an API key.
func MaskKey(key string) string {
	if key == "" {
		return ""
	}
	r := []rune(key)
	if len(r) <= 8 {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", len(r)-4) + string(r[len(r)-4:])
}

func newValidateKeyCommand(open ProcessorFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-key",
		Short: "Check the API key of the active provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := open()
			ok, err := p.ValidateConfiguredKey(cmd.Context())
			if err != nil {
				return err
			}
			provider := p.Config().APIProvider
			if !ok {
				return fmt.Errorf("API key for %s was rejected", provider)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key for %s is valid\n", provider)
			return nil
		},
	}
}

func newModelsCommand(open ProcessorFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models available to the configured key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := open()
			catalog, err := p.Models(cmd.Context())
			if err != nil {
				return err
			}
			catalog.Print(cmd.OutOrStdout(), p.Config().Model)
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gptranslate %s\n", internal.Version)
		},
	}
}
