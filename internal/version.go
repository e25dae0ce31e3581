package internal

// Version is the gptranslate release, shown by the CLI and the window title.
const Version = "0.4.0"
