package subscription

import (
	"testing"

	"github.com/entrecon/entrecon/internal/structured"
	"github.com/entrecon/entrecon/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFilter(t *testing.T) {
	t.Run("nil params keep the product allow-list and default statuses", func(t *testing.T) {
		f := NewFilter(nil)
		assert.Equal(t, GoogleProductIDs, f.ProductIDs)
		assert.Equal(t, DefaultStatuses, f.Statuses)
		assert.Empty(t, f.CreatedAfter)
		assert.Empty(t, f.MarketplaceIDs)
	})

	t.Run("date range applies only with a lower bound", func(t *testing.T) {
		f := NewFilter(&types.ReportParams{
			Date: &types.DateRangeOption{Before: "2023-12-31"},
		})
		assert.Empty(t, f.CreatedAfter)
		assert.Empty(t, f.CreatedBefore)

		f = NewFilter(&types.ReportParams{
			Date: &types.DateRangeOption{After: "2023-01-01", Before: "2023-12-31"},
		})
		assert.Equal(t, "2023-01-01", f.CreatedAfter)
		assert.Equal(t, "2023-12-31", f.CreatedBefore)
	})

	t.Run("choice options flagged All are ignored", func(t *testing.T) {
		f := NewFilter(&types.ReportParams{
			Marketplace:    &types.ChoiceOption{All: true, Choices: []string{"MP-1"}},
			ConnectionType: &types.ChoiceOption{Choices: []string{"production"}},
		})
		assert.Empty(t, f.MarketplaceIDs)
		assert.Equal(t, []string{"production"}, f.ConnectionTypes)
	})

	t.Run("status All lifts the default status constraint", func(t *testing.T) {
		f := NewFilter(&types.ReportParams{Status: &types.ChoiceOption{All: true}})
		assert.Nil(t, f.Statuses)

		f = NewFilter(&types.ReportParams{Status: &types.ChoiceOption{Choices: []string{"active"}}})
		assert.Equal(t, []string{"active"}, f.Statuses)
	})
}

func TestFilterMatches(t *testing.T) {
	record := func(doc string) structured.Value {
		v, err := structured.Decode([]byte(doc))
		require.NoError(t, err)
		return v
	}

	base := record(`{
		"product": {"id": "PRD-861-570-450"},
		"marketplace": {"id": "MP-1"},
		"connection": {"type": "production"},
		"status": "active",
		"events": {"created": {"at": "2023-06-15T12:00:00+00:00"}}
	}`)

	t.Run("default filter accepts a workspace subscription", func(t *testing.T) {
		assert.True(t, NewFilter(nil).Matches(base))
	})

	t.Run("foreign products are always excluded", func(t *testing.T) {
		other := record(`{"product": {"id": "PRD-000-000-000"}, "status": "active"}`)
		assert.False(t, NewFilter(nil).Matches(other))
	})

	t.Run("status outside the default set is excluded", func(t *testing.T) {
		draft := record(`{"product": {"id": "PRD-861-570-450"}, "status": "draft"}`)
		assert.False(t, NewFilter(nil).Matches(draft))
		assert.True(t, NewFilter(&types.ReportParams{
			Status: &types.ChoiceOption{All: true},
		}).Matches(draft))
	})

	t.Run("creation bounds compare lexicographically", func(t *testing.T) {
		inRange := NewFilter(&types.ReportParams{
			Date: &types.DateRangeOption{After: "2023-01-01", Before: "2023-12-31T23:59:59+00:00"},
		})
		assert.True(t, inRange.Matches(base))

		outOfRange := NewFilter(&types.ReportParams{
			Date: &types.DateRangeOption{After: "2024-01-01", Before: "2024-12-31"},
		})
		assert.False(t, outOfRange.Matches(base))
	})

	t.Run("marketplace and connection constraints", func(t *testing.T) {
		f := NewFilter(&types.ReportParams{
			Marketplace:    &types.ChoiceOption{Choices: []string{"MP-2"}},
			ConnectionType: &types.ChoiceOption{Choices: []string{"production"}},
		})
		assert.False(t, f.Matches(base))

		f.MarketplaceIDs = []string{"MP-1"}
		assert.True(t, f.Matches(base))
	})
}
