package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/backpackers/internal/domain"
	"github.com/pkordes/backpackers/internal/handler"
)

func TestMessages_SendAndList(t *testing.T) {
	var log []domain.Message
	svc := &mockMessageServicer{
		send: func(_ context.Context, groupID string, a domain.Actor, text string) (domain.Message, error) {
			m := domain.Message{ID: "msg_1", GroupID: groupID, SenderID: a.ID, SenderName: a.DisplayName(), Text: text, Timestamp: time.Now().UTC()}
			log = append(log, m)
			return m, nil
		},
		list: func(_ context.Context, _ string) ([]domain.Message, error) { return log, nil },
	}
	h := newHTTPHandler(handler.Services{Messages: svc})

	rec := do(t, h, http.MethodPost, "/groups/g1/messages", "explorer-arjun", map[string]string{"text": "Train tickets booked"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, "/groups/g1/messages", "explorer-arjun", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp []domain.Message
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "explorer-arjun", resp[0].SenderName)
}

func TestMessages_RequireIdentity(t *testing.T) {
	rec := do(t, newHTTPHandler(handler.Services{Messages: &mockMessageServicer{}}), http.MethodGet, "/groups/g1/messages", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
