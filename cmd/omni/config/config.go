package config

// Version is set at build time through ldflags.
var Version = "unreleased"
