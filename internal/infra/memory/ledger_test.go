package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	"github.com/BruksfildServices01/slot-scheduler/internal/models"
)

func TestLedger(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	t.Run("create assigns id and get returns it", func(t *testing.T) {
		l := NewLedger()
		ap := &models.Appointment{RequesterID: "u1", ProviderID: "p1", CreatedAt: base}

		id, err := l.Create(ctx, ap)
		require.NoError(t, err)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, ap.ID)

		got, err := l.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "u1", got.RequesterID)
		assert.False(t, got.Cancelled)
	})

	t.Run("get missing is not found", func(t *testing.T) {
		_, err := NewLedger().Get(ctx, "missing")
		assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound))
	})

	t.Run("duplicate id is a persistence failure", func(t *testing.T) {
		l := NewLedger()
		_, err := l.Create(ctx, &models.Appointment{ID: "a1"})
		require.NoError(t, err)
		_, err = l.Create(ctx, &models.Appointment{ID: "a1"})
		assert.True(t, httperr.IsBusiness(err, httperr.CodePersistenceFailure))
	})

	t.Run("list is newest first and includes cancelled", func(t *testing.T) {
		l := NewLedger()
		ids := make([]string, 0, 3)
		for i := 0; i < 3; i++ {
			id, err := l.Create(ctx, &models.Appointment{
				RequesterID: "u1",
				CreatedAt:   base.Add(time.Duration(i) * time.Hour),
			})
			require.NoError(t, err)
			ids = append(ids, id)
		}
		_, err := l.Create(ctx, &models.Appointment{RequesterID: "u2", CreatedAt: base})
		require.NoError(t, err)
		require.NoError(t, l.MarkCancelled(ctx, ids[1], base))

		list, err := l.ListByRequester(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, ids[2], list[0].ID)
		assert.Equal(t, ids[1], list[1].ID)
		assert.Equal(t, ids[0], list[2].ID)
		assert.True(t, list[1].Cancelled)

		empty, err := l.ListByRequester(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("mark cancelled transitions once", func(t *testing.T) {
		l := NewLedger()
		id, err := l.Create(ctx, &models.Appointment{RequesterID: "u1"})
		require.NoError(t, err)

		require.NoError(t, l.MarkCancelled(ctx, id, base))
		err = l.MarkCancelled(ctx, id, base.Add(time.Hour))
		assert.True(t, httperr.IsBusiness(err, httperr.CodeAlreadyCancelled))

		got, err := l.Get(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got.CancelledAt)
		assert.True(t, got.CancelledAt.Equal(base))

		err = l.MarkCancelled(ctx, "missing", base)
		assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound))
	})
}
