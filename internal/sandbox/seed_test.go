package sandbox

import (
	"context"
	"testing"

	"cards-marketplace/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardID_Stable(t *testing.T) {
	assert.Equal(t, CardID("Kuriboh"), CardID("Kuriboh"))
	assert.NotEqual(t, CardID("Kuriboh"), CardID("Jinzo"))
}

func TestSeedCatalog_Idempotent(t *testing.T) {
	store := NewStore()
	n := SeedCatalog(store)
	SeedCatalog(store)

	page := store.catalogPage(1, domain.MaxRPP)
	assert.Len(t, page.List, n)
	assert.False(t, page.More)

	c, ok := store.card(CardID("Blue-Eyes White Dragon"))
	require.True(t, ok)
	assert.Equal(t, "Blue-Eyes White Dragon", c.Name)
	assert.NotNil(t, c.CreatedAt)
}

func TestSeedDemo(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := SeedDemo(ctx, svc, "demo@example.com", "demo-password")
	require.NoError(t, err)

	cards, err := svc.UserCards(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, cards, 3)

	trades := svc.Trades(ctx, 1, 10)
	require.Len(t, trades.List, 1)
	assert.Equal(t, user.ID, trades.List[0].UserID)

	_, err = SeedDemo(ctx, svc, "demo@example.com", "demo-password")
	assert.ErrorIs(t, err, domain.ErrEmailExists)
}
