package service

import (
	"context"
	"errors"
	"testing"

	"cards-marketplace/internal/domain"
	"cards-marketplace/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradeBuilder_Toggle(t *testing.T) {
	b := NewTradeBuilder(testutil.NewMockAPI(), nil)

	b.ToggleOffering("a")
	b.ToggleOffering("b")
	b.ToggleOffering("a")
	b.ToggleReceiving("x")

	offering, receiving := b.Selection()
	assert.Equal(t, []string{"b"}, offering)
	assert.Equal(t, []string{"x"}, receiving)

	b.Reset()
	offering, receiving = b.Selection()
	assert.Empty(t, offering)
	assert.Empty(t, receiving)
}

func TestTradeBuilder_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("requires_both_sides", func(t *testing.T) {
		tests := []struct {
			name      string
			offering  []string
			receiving []string
		}{
			{name: "nothing"},
			{name: "only_offering", offering: []string{"a"}},
			{name: "only_receiving", receiving: []string{"x"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				api := testutil.NewMockAPI()
				notes := &testutil.NotifierRecorder{}
				b := NewTradeBuilder(api, notes)
				for _, id := range tt.offering {
					b.ToggleOffering(id)
				}
				for _, id := range tt.receiving {
					b.ToggleReceiving(id)
				}

				_, err := b.Submit(ctx)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				assert.Equal(t, 0, api.CallCount("CreateTrade"))
				assert.Equal(t, domain.SeverityWarn, notes.Last().Severity)
			})
		}
	})

	t.Run("offering_first", func(t *testing.T) {
		api := testutil.NewMockAPI()
		notes := &testutil.NotifierRecorder{}
		b := NewTradeBuilder(api, notes)
		b.ToggleReceiving("x")
		b.ToggleOffering("a")
		b.ToggleOffering("b")

		resp, err := b.Submit(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, resp.TradeID)

		require.Len(t, api.CreatedTrades, 1)
		assert.Equal(t, []domain.TradeCardInput{
			{CardID: "a", Type: domain.Offering},
			{CardID: "b", Type: domain.Offering},
			{CardID: "x", Type: domain.Receiving},
		}, api.CreatedTrades[0].Cards)
		assert.Equal(t, domain.SeveritySuccess, notes.Last().Severity)

		offering, receiving := b.Selection()
		assert.Empty(t, offering)
		assert.Empty(t, receiving)
	})

	t.Run("api_error_keeps_selection", func(t *testing.T) {
		api := testutil.NewMockAPI()
		api.CreateTradeFunc = func(context.Context, domain.CreateTradeRequest) (*domain.CreateTradeResponse, error) {
			return nil, errors.New("boom")
		}
		notes := &testutil.NotifierRecorder{}
		b := NewTradeBuilder(api, notes)
		b.ToggleOffering("a")
		b.ToggleReceiving("x")

		_, err := b.Submit(ctx)
		require.Error(t, err)
		assert.Equal(t, domain.SeverityError, notes.Last().Severity)

		offering, _ := b.Selection()
		assert.Equal(t, []string{"a"}, offering)
	})
}
