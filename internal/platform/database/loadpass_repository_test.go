package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"art-gallery/internal/domain/artwork"
	"art-gallery/internal/testutils"
)

func setupSuite(t *testing.T) *testutils.TestSuite {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	suite, err := testutils.SetupTestSuite(ctx)
	if err != nil {
		t.Skipf("test containers unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = suite.Cleanup(context.Background()) //nolint:errcheck // Best effort cleanup
	})

	return suite
}

func TestLoadPassRepository_RecordAssignsID(t *testing.T) {
	suite := setupSuite(t)
	ctx := context.Background()

	pass := &artwork.LoadPass{
		Source:     "manifest",
		ImageCount: 12,
		Duration:   340 * time.Millisecond,
		StartedAt:  time.Now().UTC(),
	}

	require.NoError(t, suite.LoadPasses.Record(ctx, pass))
	assert.NotZero(t, pass.ID)
}

func TestLoadPassRepository_RecentNewestFirst(t *testing.T) {
	suite := setupSuite(t)
	ctx := context.Background()

	require.NoError(t, suite.ResetData(ctx))

	older := &artwork.LoadPass{
		Source:     "listing",
		ImageCount: 3,
		Duration:   100 * time.Millisecond,
		StartedAt:  time.Now().UTC().Add(-time.Hour),
	}
	newer := &artwork.LoadPass{
		Source:     "manifest",
		ImageCount: 7,
		Duration:   250 * time.Millisecond,
		StartedAt:  time.Now().UTC(),
	}

	require.NoError(t, suite.LoadPasses.Record(ctx, older))
	require.NoError(t, suite.LoadPasses.Record(ctx, newer))

	passes, err := suite.LoadPasses.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, passes, 2)

	assert.Equal(t, "manifest", passes[0].Source)
	assert.Equal(t, 7, passes[0].ImageCount)
	assert.Equal(t, 250*time.Millisecond, passes[0].Duration)
	assert.Equal(t, "listing", passes[1].Source)
}
