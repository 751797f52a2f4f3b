package launcher

import "github.com/rony4d/go-claimdrop/claimdrop"

// DefaultConfig returns the baseline configuration the launcher uses before
// the config file and flags override it.
func DefaultConfig() Config {
	return Config{
		Node: NodeConfig{
			Logging: LoggingConfig{
				Verbosity: 3,      // info
				Format:    "text", // text|json
				Color:     false,  // best left off when piping to files
			},
		},
		Drop: DropConfig{
			Profile: claimdrop.StandardProfile,
			Journal: true, // keep events for off-chain indexing
		},
	}
}
