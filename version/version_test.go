package version //nolint:revive // package name intentionally matches build-info convention

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	old := [4]string{Repository, Version, Commit, Date}
	t.Cleanup(func() { Repository, Version, Commit, Date = old[0], old[1], old[2], old[3] })

	Repository, Version, Commit, Date = "", "", "", ""
	assert.Equal(t, "devel", String())
	assert.Equal(t, "version=devel", Info())

	Version, Commit = "v1.2.0", "abc123"
	assert.Equal(t, "v1.2.0", String())
	assert.Equal(t, "version=v1.2.0 commit=abc123", Info())
}
