package config

// Embedded API key injected at build time via ldflags.
// It serves as a default and can be overridden by environment
// variables or config file.
//
// Build with:
//   go build -ldflags "-X 'github.com/reelswipe/reelswipe/internal/config.EmbeddedTMDBKey=xxx'"
var EmbeddedTMDBKey string
