package cli

// Flags holds all command-line flag values
type Flags struct {
	// Global flags
	CfgFile   string
	DataDir   string
	LogLevel  string
	Autostart bool

	// translate flags
	BatchFile string
	JSON      bool

	// history flags
	Limit   int
	Archive bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogLevel: "info",
		Limit:    20,
	}
}
