package version

// Version is overridden at build time with -ldflags "-X autopilot/internal/version.Version=...".
var Version = "dev"
