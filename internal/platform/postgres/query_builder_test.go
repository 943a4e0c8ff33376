package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/tradefair/tradefair-api/internal/store"
)

func TestBuildItemQuery(t *testing.T) {
	t.Parallel()

	t.Run("no filters", func(t *testing.T) {
		t.Parallel()
		query, args := buildItemQuery(store.ItemFilter{})

		assert.NotContains(t, query, "WHERE")
		assert.Contains(t, query, "ORDER BY created_at DESC")
		assert.Empty(t, args)
	})

	t.Run("category filter", func(t *testing.T) {
		t.Parallel()
		query, args := buildItemQuery(store.ItemFilter{Category: "books"})

		assert.Contains(t, query, "WHERE category = $1")
		assert.Equal(t, []any{"books"}, args)
	})

	t.Run("search matches name or description", func(t *testing.T) {
		t.Parallel()
		query, args := buildItemQuery(store.ItemFilter{Search: "bike"})

		assert.Contains(t, query, "(name ILIKE $1 OR description ILIKE $1)")
		assert.Equal(t, []any{"%bike%"}, args)
	})

	t.Run("filters combine with AND", func(t *testing.T) {
		t.Parallel()
		query, args := buildItemQuery(store.ItemFilter{Category: "books", Search: "go"})

		assert.Contains(t, query, "category = $1 AND (name ILIKE $2 OR description ILIKE $2)")
		assert.Equal(t, []any{"books", "%go%"}, args)
	})
}

func TestBuildProposalQuery(t *testing.T) {
	t.Parallel()

	t.Run("no filters", func(t *testing.T) {
		t.Parallel()
		query, args := buildProposalQuery(store.ProposalFilter{})

		assert.NotContains(t, query, "WHERE")
		assert.Contains(t, query, "ORDER BY created_at DESC")
		assert.Empty(t, args)
	})

	t.Run("explicit filters combine with AND", func(t *testing.T) {
		t.Parallel()
		proposerID := uuid.New()
		desiredItemID := uuid.New()
		query, args := buildProposalQuery(store.ProposalFilter{
			Status:        "pending",
			ProposerID:    proposerID,
			DesiredItemID: desiredItemID,
		})

		assert.Contains(t, query, "status = $1 AND proposer_id = $2 AND desired_item_id = $3")
		assert.Equal(t, []any{"pending", proposerID, desiredItemID}, args)
	})

	t.Run("scope conditions combine with OR inside one group", func(t *testing.T) {
		t.Parallel()
		proposerID := uuid.New()
		itemA := uuid.New()
		itemB := uuid.New()
		query, args := buildProposalQuery(store.ProposalFilter{
			Scope: &store.ProposalScope{
				ProposerID:     proposerID,
				DesiredItemIDs: []uuid.UUID{itemA, itemB},
			},
		})

		assert.Contains(t, query,
			"(proposer_id = $1 OR desired_item_id = $2 OR desired_item_id = $3)")
		assert.Equal(t, []any{proposerID, itemA, itemB}, args)
	})

	t.Run("scope ANDs with explicit filters", func(t *testing.T) {
		t.Parallel()
		proposerID := uuid.New()
		query, args := buildProposalQuery(store.ProposalFilter{
			Status: "pending",
			Scope: &store.ProposalScope{
				ProposerID: proposerID,
			},
		})

		assert.Contains(t, query, "status = $1 AND (proposer_id = $2)")
		assert.Len(t, args, 2)
	})

	t.Run("empty scope adds no clause", func(t *testing.T) {
		t.Parallel()
		query, args := buildProposalQuery(store.ProposalFilter{
			Scope: &store.ProposalScope{},
		})

		assert.NotContains(t, query, "WHERE")
		assert.Empty(t, args)
	})
}
