package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	t.Parallel()

	owner := uuid.New()

	t.Run("new items start available", func(t *testing.T) {
		t.Parallel()
		item, err := NewItem(owner, "bicycle", "red, slightly used", "sports", "")
		require.NoError(t, err)

		assert.Equal(t, ItemStatusAvailable, item.Status)
		assert.True(t, item.IsAvailable())
		assert.True(t, item.IsOwnedBy(owner))
		assert.False(t, item.IsOwnedBy(uuid.New()))
	})

	t.Run("rejects empty name", func(t *testing.T) {
		t.Parallel()
		_, err := NewItem(owner, "", "", "sports", "")
		assert.ErrorIs(t, err, ErrItemNameEmpty)
	})

	t.Run("rejects empty category", func(t *testing.T) {
		t.Parallel()
		_, err := NewItem(owner, "bicycle", "", "", "")
		assert.ErrorIs(t, err, ErrItemCategoryEmpty)
	})

	t.Run("rejects missing owner", func(t *testing.T) {
		t.Parallel()
		_, err := NewItem(uuid.Nil, "bicycle", "", "sports", "")
		assert.ErrorIs(t, err, ErrItemOwnerEmpty)
	})
}

func TestItemValidateStatus(t *testing.T) {
	t.Parallel()

	item, err := NewItem(uuid.New(), "bicycle", "", "sports", "")
	require.NoError(t, err)

	item.Status = ItemStatus("Broken")
	assert.ErrorIs(t, item.Validate(), ErrInvalidItemStatus)

	item.Status = ItemStatusTraded
	assert.NoError(t, item.Validate())
	assert.False(t, item.IsAvailable())
}
