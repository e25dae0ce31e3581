package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/gptranslate/internal"
	"codeberg.org/snonux/gptranslate/internal/autostart"
	"codeberg.org/snonux/gptranslate/internal/processor"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gptranslate",
		Short: "Clipboard translation with OpenAI and Azure OpenAI",
		Long: `gptranslate translates the clipboard with a hotkey.

Without a sub-command it starts the desktop window and the tray icon.
Copy some text, press the hotkey (Ctrl+Alt+C by default) and the
translation shows up in the window.

Examples:
  gptranslate                          # Launch the desktop app (default)
  gptranslate translate "God morgen"   # Translate from the command line
  gptranslate translate --batch texts.txt
  gptranslate history --limit 5`,
		Args:          cobra.NoArgs,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "CLI preferences file (default is $HOME/.gptranslate.yaml)")
	cmd.PersistentFlags().StringVar(&flags.DataDir, "data-dir", "", "directory holding config.json and history.json (default is $HOME/.gptranslate)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "log level: debug, info, warn or error")
	cmd.PersistentFlags().BoolVar(&flags.Autostart, "autostart", false, "started on login: keep the window hidden in the tray")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("data.dir", cmd.PersistentFlags().Lookup("data-dir"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	// A .env file in the working directory may carry GPTRANSLATE_* variables.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			log.Warn().Err(err).Msg("cannot determine home directory")
		} else {
			viper.AddConfigPath(home)
		}

		// Search config in home directory with name ".gptranslate" (without extension)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".gptranslate")
	}

	// Environment variables
	viper.SetEnvPrefix("GPTRANSLATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		log.Debug().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	}

	SetupLogger(viper.GetString("log.level"), os.Stderr)
}

// GetAPIKey returns the key from GPTRANSLATE_API_KEY or the api_key entry
// of the CLI preferences file. It overrides the stored key of the active
// provider for this process only.
func GetAPIKey() string {
	return viper.GetString("api_key")
}

// DataDir returns the data directory chosen by flag, environment or CLI
// preferences file; "" means the default.
func DataDir() string {
	return viper.GetString("data.dir")
}

// NewProcessor builds the processor from the current viper settings.
func NewProcessor() *processor.Processor {
	opts := processor.Options{
		DataDir:        DataDir(),
		APIKeyOverride: GetAPIKey(),
	}

	mgr, err := autostart.New()
	if err != nil {
		log.Debug().Err(err).Msg("autostart unavailable")
	} else {
		opts.Autostart = mgr
	}

	return processor.NewProcessor(opts)
}
