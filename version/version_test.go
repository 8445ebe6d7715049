package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFullVersion(t *testing.T) {
	assert.Equal(t, "dev", GetFullVersion())

	defer func(v, c, d string) { Version, GitCommit, BuildDate = v, c, d }(Version, GitCommit, BuildDate)
	Version, GitCommit, BuildDate = "1.2.0", "abc123", "2026-10-01"
	assert.Equal(t, "1.2.0 (commit abc123, built 2026-10-01)", GetFullVersion())
}
