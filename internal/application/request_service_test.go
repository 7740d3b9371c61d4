package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	itemDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/item"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/domain"
	"github.com/ShareIt-Rental/service-shareit/internal/repository/memory"
)

func TestRequestService(t *testing.T) {
	users := memory.NewUserStore()
	items := memory.NewItemStore()
	svc := NewRequestService(memory.NewRequestStore(), items, users, zap.NewNop())
	ctx := context.Background()

	alice := saveUser(t, users, "Alice", "alice@example.com")
	bob := saveUser(t, users, "Bob", "bob@example.com")

	ladder, err := svc.CreateRequest(ctx, alice.ID(), CreateRequestRequest{Description: "Need a ladder"})
	require.NoError(t, err)
	assert.Empty(t, ladder.Items)
	_, err = svc.CreateRequest(ctx, bob.ID(), CreateRequestRequest{Description: "Need a tent"})
	require.NoError(t, err)

	_, err = svc.CreateRequest(ctx, 999, CreateRequestRequest{Description: "x"})
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	requestID := ladder.ID
	answer, err := itemDomain.NewItem(bob.ID(), "Ladder", "Three metres", true, &requestID)
	require.NoError(t, err)
	require.NoError(t, items.Save(ctx, answer))

	own, err := svc.ListOwnRequests(ctx, alice.ID())
	require.NoError(t, err)
	require.Len(t, own, 1)
	require.Len(t, own[0].Items, 1)
	assert.Equal(t, answer.ID(), own[0].Items[0].ID)

	others, err := svc.ListOtherRequests(ctx, alice.ID(), 0, 10)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, "Need a tent", others[0].Description)

	got, err := svc.GetRequest(ctx, bob.ID(), ladder.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)

	_, err = svc.GetRequest(ctx, bob.ID(), 999)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
	_, err = svc.GetRequest(ctx, 999, ladder.ID)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}
