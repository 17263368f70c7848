package cmd

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFlagsFromEnvVariables(t *testing.T) {
	t.Setenv("IDGATE_GITHUB_CLIENT_ID", "github-id-from-env")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	got := fs.String("github-client-id", "", "")
	require.NoError(t, fs.Parse(nil))

	SetFlagsFromEnvVariables(fs)

	assert.Equal(t, "github-id-from-env", *got)
}
