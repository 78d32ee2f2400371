package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankwizard-dev/bankwizard/internal/config"
)

func TestRunInit(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, runInit(dir, "Muster GmbH"))

	for _, d := range []string{"ledger", "logs", "statements"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, d)
		assert.True(t, info.IsDir())
	}

	cfg, err := config.Load(filepath.Join(dir, "bankwizard.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Muster GmbH", cfg.Company.Name)
	assert.Equal(t, "CHF", cfg.Company.Currency)

	_, err = os.Stat(filepath.Join(dir, "ledger", "payments.csv"))
	require.NoError(t, err, "an empty payment log is seeded")
}
