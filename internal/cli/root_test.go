package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	tests := []struct {
		args []string
		use  string
	}{
		{args: []string{"migrate"}, use: "migrate"},
		{args: []string{"create-admin"}, use: "create-admin"},
		{args: []string{"prune", "revocations"}, use: "revocations"},
		{args: []string{"prune", "activities"}, use: "activities"},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			cmd, _, err := rootCmd.Find(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.use, cmd.Name())
			assert.NotNil(t, cmd.RunE)
		})
	}
}

func TestCreateAdminRequiresFlags(t *testing.T) {
	for _, name := range []string{"email", "first-name", "last-name"} {
		flag := createAdminCmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, []string{"true"}, flag.Annotations["cobra_annotation_bash_completion_one_required_flag"], name)
	}
}
