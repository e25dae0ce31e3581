package main

import (
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/gptranslate/internal/cli"
	"codeberg.org/snonux/gptranslate/internal/gui"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Sub-commands open the processor lazily, after InitConfig ran
	cli.AddCommands(rootCmd, flags, cli.NewProcessor)

	// Without a sub-command the desktop app starts
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runGUI(flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func runGUI(flags *cli.Flags) error {
	logView := gui.NewLogViewer(500)
	cli.TeeLogger(logView)

	proc := cli.NewProcessor()
	proc.Start()

	app := gui.New(proc, gui.Options{
		StartHidden: flags.Autostart,
		Log:         logView,
	})
	app.Run()
	return nil
}
