package capabilities

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orquestra/internal/adapters/brapi"
	"orquestra/pkg/errors"
)

func TestInflationCapability(t *testing.T) {
	market := &fakeMarket{
		seriesPoints: []brapi.SeriesPoint{
			{Date: "01/07/2025", Value: "0.26"},
			{Date: "01/06/2025", Value: "0.24"},
		},
	}
	cap := NewInflationCapability(Deps{Market: market})

	t.Run("defaults to the historical series", func(t *testing.T) {
		result, err := cap.Execute(context.Background(), map[string]interface{}{})
		require.NoError(t, err)

		assert.True(t, market.lastSeries.Historical)
		assert.True(t, market.lastSeries.Start.IsZero())
		assert.True(t, market.lastSeries.End.IsZero())

		points := result["inflation"].([]brapi.SeriesPoint)
		require.Len(t, points, 2)
		assert.Equal(t, "0.26", points[0].Value)
	})

	t.Run("parses start and end dates", func(t *testing.T) {
		_, err := cap.Execute(context.Background(), map[string]interface{}{
			"start": "01/01/2024",
			"end":   "31/12/2024",
		})
		require.NoError(t, err)

		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), market.lastSeries.Start)
		assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), market.lastSeries.End)
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		_, err := cap.Execute(context.Background(), map[string]interface{}{
			"start": "2024-01-01",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))
		assert.Contains(t, err.Error(), "DD/MM/YYYY")
	})

	t.Run("historical false passes through", func(t *testing.T) {
		_, err := cap.Execute(context.Background(), map[string]interface{}{"historical": false})
		require.NoError(t, err)
		assert.False(t, market.lastSeries.Historical)
	})
}

func TestPrimeRateCapability(t *testing.T) {
	market := &fakeMarket{
		seriesPoints: []brapi.SeriesPoint{
			{Date: "01/08/2025", Value: "15.00"},
		},
	}
	cap := NewPrimeRateCapability(Deps{Market: market})

	result, err := cap.Execute(context.Background(), map[string]interface{}{})
	require.NoError(t, err)

	points := result["prime_rate"].([]brapi.SeriesPoint)
	require.Len(t, points, 1)
	assert.Equal(t, "15.00", points[0].Value)
}
