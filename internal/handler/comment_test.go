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

func commentFixture(likes int) domain.Comment {
	return domain.Comment{
		ID:          "cmt_1",
		GroupID:     "g1",
		AuthorID:    "host-priya",
		AuthorName:  "Priya Sharma",
		AvatarColor: domain.HostAvatarColor,
		RoleLabel:   domain.RoleLabelHost,
		Text:        "Bring a warm layer, nights are cold.",
		CreatedAt:   time.Date(2025, 11, 2, 18, 0, 0, 0, time.UTC),
		Likes:       likes,
	}
}

func TestListComments_PublicAndEmptyArray(t *testing.T) {
	svc := &mockCommentServicer{
		list: func(_ context.Context, _ string) ([]domain.Comment, error) { return nil, nil },
	}

	rec := do(t, newHTTPHandler(handler.Services{Comments: svc}), http.MethodGet, "/groups/g1/comments", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestPostComment_201(t *testing.T) {
	var gotAuthor domain.Actor
	var gotText string
	svc := &mockCommentServicer{
		post: func(_ context.Context, _ string, a domain.Actor, _, text string) (domain.Comment, error) {
			gotAuthor, gotText = a, text
			return commentFixture(0), nil
		},
	}

	rec := do(t, newHTTPHandler(handler.Services{Comments: svc}), http.MethodPost, "/groups/g1/comments", "host-priya",
		map[string]string{"text": "Bring a warm layer, nights are cold."})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "host-priya", gotAuthor.ID)
	assert.Equal(t, "Bring a warm layer, nights are cold.", gotText)
}

func TestDeleteComment(t *testing.T) {
	svc := &mockCommentServicer{
		delete: func(_ context.Context, _, _, requesterID string) error {
			if requesterID != "host-priya" {
				return domain.ErrUnauthorized
			}
			return nil
		},
	}
	h := newHTTPHandler(handler.Services{Comments: svc})

	rec := do(t, h, http.MethodDelete, "/groups/g1/comments/cmt_1", "explorer-arjun", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "unauthorized", decodeError(t, rec).Code)

	rec = do(t, h, http.MethodDelete, "/groups/g1/comments/cmt_1", "host-priya", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestLikeComment(t *testing.T) {
	var calls []bool
	svc := &mockCommentServicer{
		like: func(_ context.Context, _, _ string, isLike bool) (domain.Comment, error) {
			calls = append(calls, isLike)
			if isLike {
				return commentFixture(1), nil
			}
			return commentFixture(0), nil
		},
	}
	h := newHTTPHandler(handler.Services{Comments: svc})

	rec := do(t, h, http.MethodPost, "/groups/g1/comments/cmt_1/likes", "explorer-arjun", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/groups/g1/comments/cmt_1/likes", "explorer-arjun", map[string]bool{"like": false})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp domain.Comment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 0, resp.Likes)
	assert.Equal(t, []bool{true, false}, calls)
}
