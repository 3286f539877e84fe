package version

import (
	"fmt"
	"runtime"
	"time"
)

// Set at build time with -ldflags "-X github.com/MrSnakeDoc/totoro/internal/version.Version=...".
var (
	Version   = "dev"                           // ex: v0.1.0
	Commit    = "none"                          // ex: abcd123
	BuildDate = time.Now().Format(time.RFC3339) // ex: 2026-10-19T18:42:00Z
	GoVersion = runtime.Version()               // go version
)

// String is the one-line build summary printed by `totoro version` and at startup.
func String() string {
	return fmt.Sprintf("totoro %s (commit=%s, built=%s, go=%s)", Version, Commit, BuildDate, GoVersion)
}
