package shared

import "os"

// Terminal capabilities, read once at startup.
//
//nolint:gochecknoglobals // Process-wide terminal capabilities
var (
	colorsDisabled  = os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb"
	unicodeDisabled = os.Getenv("TERM") == "dumb" || os.Getenv("DIRPOLL_ASCII") != ""
)
