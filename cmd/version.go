package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ajxudir/pyupgradecheck/pkg/constants"
)

// Version information set at build time via ldflags.
// Example: go build -ldflags="-X github.com/ajxudir/pyupgradecheck/cmd.Version=1.0.0"
var (
	// Version is the semantic version of the build.
	Version = "dev"
	// BuildTime is the timestamp of the build.
	BuildTime = ""
	// GitCommit is the git commit hash of the build.
	GitCommit = ""
	// BuildOS is the target OS the binary was built for.
	BuildOS = ""
	// BuildArch is the target architecture the binary was built for.
	BuildArch = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		printVersionOutput(cmd.OutOrStdout())
	},
}

// printVersionOutput prints build, runtime, and version information.
//
// The runtime platform is only shown when it differs from the build target,
// followed by a warning.
func printVersionOutput(w io.Writer) {
	buildOS, buildArch := getBuildTarget()
	_, _ = fmt.Fprintf(w, "  Build:   %s/%s\n", buildOS, buildArch)
	if buildOS != runtime.GOOS || buildArch != runtime.GOARCH {
		_, _ = fmt.Fprintf(w, "  Runtime: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	}
	_, _ = fmt.Fprintf(w, "  Go:      %s\n", runtime.Version())
	if BuildTime != "" {
		_, _ = fmt.Fprintf(w, "  Date:    %s\n", BuildTime)
	}
	_, _ = fmt.Fprintln(w)
	if GitCommit != "" {
		_, _ = fmt.Fprintf(w, "  Git:     %s\n", GitCommit)
	}
	_, _ = fmt.Fprintf(w, "  Version: %s\n", Version)

	if warning := GetArchMismatchWarning(); warning != "" {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprint(w, warning)
	}
}

// GetVersion returns the version string, "dev" for development builds.
func GetVersion() string {
	return Version
}

// getBuildTarget returns the OS and architecture the binary was built for,
// falling back to the runtime values for dev builds.
func getBuildTarget() (string, string) {
	buildOS := BuildOS
	buildArch := BuildArch
	if buildOS == "" {
		buildOS = runtime.GOOS
	}
	if buildArch == "" {
		buildArch = runtime.GOARCH
	}
	return buildOS, buildArch
}

// HasArchMismatch reports whether the binary was built for a different
// platform than the one it runs on. Dev builds never mismatch.
func HasArchMismatch() bool {
	if BuildOS == "" && BuildArch == "" {
		return false
	}
	buildOS, buildArch := getBuildTarget()
	return buildOS != runtime.GOOS || buildArch != runtime.GOARCH
}

// GetArchMismatchWarning returns a warning for HasArchMismatch, or "".
func GetArchMismatchWarning() string {
	if !HasArchMismatch() {
		return ""
	}
	buildOS, buildArch := getBuildTarget()
	return fmt.Sprintf("%s  Architecture mismatch: binary built for %s/%s but running on %s/%s\n"+
		"   This may cause unexpected behavior. Please download the correct binary.\n",
		constants.IconWarn, buildOS, buildArch, runtime.GOOS, runtime.GOARCH)
}
