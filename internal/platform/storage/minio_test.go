package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

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

func TestArtworkStore_ListAndFetch(t *testing.T) {
	suite := setupSuite(t)
	ctx := context.Background()

	require.NoError(t, suite.SeedArtwork(ctx, "sunrise.png"))
	require.NoError(t, suite.SeedArtwork(ctx, "harbour.png"))

	names, err := suite.Containers.Store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"sunrise.png", "harbour.png"}, names)

	body, err := suite.Containers.Store.Fetch(ctx, "sunrise.png")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(data, testutils.GenerateTestPNG(64, 48)))
}

func TestArtworkStore_FetchMissing(t *testing.T) {
	suite := setupSuite(t)
	ctx := context.Background()

	_, err := suite.Containers.Store.Fetch(ctx, "does-not-exist.png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, artwork.ErrArtworkNotFound))
}

func TestArtworkStore_Health(t *testing.T) {
	suite := setupSuite(t)

	assert.NoError(t, suite.Containers.Store.Health(context.Background()))
}
