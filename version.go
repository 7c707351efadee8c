package runfile

import _ "embed"

// Version holds the release version, embedded from the VERSION file.
//
//go:embed VERSION
var Version string
