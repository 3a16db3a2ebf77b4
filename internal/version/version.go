package version

// Values for these are injected by the build with -ldflags -X.
var (
	version = "devel"
	commit  = "unknown"
)

// Version returns the resman version. This is typically a semantic version,
// but in the case of unreleased code, could be another descriptor such as
// "edge".
func Version() string {
	return version
}

// Commit returns the git commit SHA for the code that resman was built from.
func Commit() string {
	return commit
}

// String returns the version and commit as one line, as shown by
// `resman --version`.
func String() string {
	return version + " -- commit " + commit
}
