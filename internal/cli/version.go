package cli

import (
	"strings"

	"github.com/common-nighthawk/go-figure"
)

// Version is overridden at build time with -ldflags "-X ...cli.Version=...".
var Version = "1.0.0-SNAPSHOT"

func versionText(appName string) string {
	banner := figure.NewFigure(appName, "cybermedium", true).String()
	return strings.TrimRight(banner, "\n") + "\n\n" + Version
}
