package types

// Version is the application version, overwritten via ldflags at release build
var Version = "dev"
