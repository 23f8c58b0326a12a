package version

// Version is the pagesmith release, set at build time:
// go build -ldflags "-X git.home.luguber.info/inful/pagesmith/internal/version.Version=v1.0.0".
var Version = "dev"

// Build metadata, set the same way.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns the version line printed by --version.
func String() string {
	return "pagesmith " + Version + " (" + GitCommit + ", built " + BuildTime + ")"
}
