package config

// Version is the draftloop binary version.
// Set at build time via: -ldflags "-X github.com/draftloop/draftloop/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
