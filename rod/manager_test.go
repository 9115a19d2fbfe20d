//go:build integration

package rod_test

import (
	"testing"

	"github.com/fwojciec/docqa/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserManager_Browser(t *testing.T) {
	t.Parallel()

	t.Run("keeps browser within page budget", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager(rod.WithMaxPages(5))
		require.NoError(t, err)
		defer manager.Close()

		before := manager.Browser()
		for range 4 {
			manager.IncrementPageCount()
		}

		assert.Same(t, before, manager.Browser())
	})

	t.Run("replaces browser once budget is spent", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager(rod.WithMaxPages(2))
		require.NoError(t, err)
		defer manager.Close()

		before := manager.Browser()
		pid := manager.LauncherPID()
		manager.IncrementPageCount()
		manager.IncrementPageCount()

		after := manager.Browser()
		assert.NotSame(t, before, after)
		assert.NotEqual(t, pid, manager.LauncherPID())
	})
}

func TestBrowserManager_Close(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager()
	require.NoError(t, err)

	require.NoError(t, manager.Close())
	require.NoError(t, manager.Close())
	assert.Zero(t, manager.LauncherPID())
}
