package version

import (
	"strings"

	"github.com/fatih/color"
)

// Build metadata, overridable with -ldflags "-X resolve/internal/version.Version=...".
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var partColors = []color.Attribute{color.FgYellow, color.FgGreen, color.FgBlue}

// Colored renders Version with major, minor and patch in distinct colours
// when enabled is set.
func Colored(enabled bool) string {
	v := strings.TrimSpace(Version)
	if v == "" {
		v = "dev"
	}
	core, suffix, _ := strings.Cut(v, "-")
	parts := strings.SplitN(core, ".", len(partColors))
	for i, part := range parts {
		c := color.New(partColors[i], color.Bold)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		parts[i] = c.Sprint(part)
	}
	out := strings.Join(parts, ".")
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}
