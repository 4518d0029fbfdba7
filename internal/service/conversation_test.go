package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthplan/renovation-assistant/internal/model"
)

func newConversation(t *testing.T, svc *ConversationService, tenantID string) *model.Conversation {
	t.Helper()
	conv, err := svc.Create(context.Background(), tenantID, "user-1", &model.CreateConversationRequest{Title: "bathroom"})
	require.NoError(t, err)
	return conv
}

func TestConversationCRUD(t *testing.T) {
	svc := NewConversationService(nil, testLogger())
	conv := newConversation(t, svc, "tenant-1")

	got, err := svc.Get(context.Background(), "tenant-1", conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "bathroom", got.Title)

	updated, err := svc.Update(context.Background(), "tenant-1", conv.ID, &model.UpdateConversationRequest{Title: "bathroom remodel"})
	require.NoError(t, err)
	assert.Equal(t, "bathroom remodel", updated.Title)

	require.NoError(t, svc.Delete(context.Background(), "tenant-1", conv.ID))

	_, err = svc.Get(context.Background(), "tenant-1", conv.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConversationTenantIsolation(t *testing.T) {
	svc := NewConversationService(nil, testLogger())
	conv := newConversation(t, svc, "tenant-1")

	_, err := svc.Get(context.Background(), "tenant-2", conv.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	resp, err := svc.List(context.Background(), "tenant-2", 20, 0)
	require.NoError(t, err)
	assert.Empty(t, resp.Conversations)
}

func TestAppendTurnsUpdatesCount(t *testing.T) {
	svc := NewConversationService(nil, testLogger())
	conv := newConversation(t, svc, "tenant-1")

	err := svc.AppendTurns(context.Background(), "tenant-1", conv.ID,
		model.Turn{Role: model.RoleUser, Text: "hi"},
		model.Turn{Role: model.RoleAssistant, Text: "hello"},
	)
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), "tenant-1", conv.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TurnCount)

	history, err := svc.History(context.Background(), "tenant-1", conv.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
}

func TestHistoryReturnsCopy(t *testing.T) {
	svc := NewConversationService(nil, testLogger())
	conv := newConversation(t, svc, "tenant-1")

	require.NoError(t, svc.AppendTurns(context.Background(), "tenant-1", conv.ID,
		model.Turn{Role: model.RoleUser, Text: "original"},
	))

	history, err := svc.History(context.Background(), "tenant-1", conv.ID)
	require.NoError(t, err)
	history[0].Text = "mutated"

	again, err := svc.History(context.Background(), "tenant-1", conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Text)
}
