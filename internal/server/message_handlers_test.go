package server

import (
	"fmt"
	"net/http"
	"testing"

	"feedbacknexus/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	s, app, db := newTestServer(t)
	owner := createVerifiedUser(t, db, "receiver", "Sup3rSecret!")
	slug := createPageVia(t, app, tokenFor(t, s, owner), "Inbox", "")

	resp, body := sendMessageVia(t, app, slug, "  honest thoughts  ")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Message sent successfully", body["message"])

	data := body["data"].(map[string]any)
	assert.Equal(t, "honest thoughts", data["content"])

	var stored models.Message
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, owner.ID, stored.UserID)
}

func TestSendMessageValidation(t *testing.T) {
	s, app, db := newTestServer(t)
	owner := createVerifiedUser(t, db, "validator", "Sup3rSecret!")
	slug := createPageVia(t, app, tokenFor(t, s, owner), "Strict Inbox", "")

	tests := []struct {
		name    string
		content string
		slug    string
	}{
		{"empty content", "", slug},
		{"empty slug", "hello", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := sendMessageVia(t, app, tt.slug, tt.content)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "Content and feedback page slug are required", body["message"])
		})
	}
}

func TestSendMessageUnknownPage(t *testing.T) {
	_, app, _ := newTestServer(t)

	resp, body := sendMessageVia(t, app, "missing-page", "hello")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestSendMessageNotAccepting(t *testing.T) {
	s, app, db := newTestServer(t)
	owner := createVerifiedUser(t, db, "closed", "Sup3rSecret!")
	token := tokenFor(t, s, owner)
	slug := createPageVia(t, app, token, "Closed Inbox", "")

	resp, _ := doRequest(t, app, authedJSONRequest(t, http.MethodPost,
		"/api/feedback-pages/"+slug+"/toggle-messages", token, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := sendMessageVia(t, app, slug, "too late")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "This feedback page is not accepting messages at the moment", body["message"])

	var count int64
	require.NoError(t, db.Model(&models.Message{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSendMessageInactivePageHidden(t *testing.T) {
	s, app, db := newTestServer(t)
	owner := createVerifiedUser(t, db, "offline", "Sup3rSecret!")
	token := tokenFor(t, s, owner)
	slug := createPageVia(t, app, token, "Offline Inbox", "")

	inactive := false
	resp, _ := doRequest(t, app, authedJSONRequest(t, http.MethodPut, "/api/feedback-pages/"+slug, token,
		map[string]any{"isActive": inactive}))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// An inactive page looks like it never existed, even though acceptance is
	// still on.
	resp, body := sendMessageVia(t, app, slug, "anyone home?")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestGetPageMessages(t *testing.T) {
	s, app, db := newTestServer(t)
	owner := createVerifiedUser(t, db, "curator", "Sup3rSecret!")
	token := tokenFor(t, s, owner)
	slug := createPageVia(t, app, token, "Curated", "the good stuff")
	otherSlug := createPageVia(t, app, token, "Other", "")

	for i := 1; i <= 3; i++ {
		resp, _ := sendMessageVia(t, app, slug, fmt.Sprintf("note %d", i))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp, _ := sendMessageVia(t, app, otherSlug, "elsewhere")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doRequest(t, app, authedJSONRequest(t, http.MethodGet,
		"/api/feedback-pages/"+slug+"/messages", token, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "Curated", body["pageTitle"])
	assert.Equal(t, "the good stuff", body["pageDescription"])
	assert.Equal(t, true, body["isAcceptingMessages"])

	messages := body["data"].([]any)
	assert.Len(t, messages, 3)
}

func TestGetPageMessagesNotOwned(t *testing.T) {
	s, app, db := newTestServer(t)
	owner := createVerifiedUser(t, db, "private", "Sup3rSecret!")
	snoop := createVerifiedUser(t, db, "snoop", "Sup3rSecret!")
	slug := createPageVia(t, app, tokenFor(t, s, owner), "Private Inbox", "")

	resp, body := doRequest(t, app, authedJSONRequest(t, http.MethodGet,
		"/api/feedback-pages/"+slug+"/messages", tokenFor(t, s, snoop), nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestGetAllMessages(t *testing.T) {
	s, app, db := newTestServer(t)
	owner := createVerifiedUser(t, db, "collector", "Sup3rSecret!")
	other := createVerifiedUser(t, db, "neighbor", "Sup3rSecret!")
	token := tokenFor(t, s, owner)

	first := createPageVia(t, app, token, "Alpha", "")
	second := createPageVia(t, app, token, "Beta", "")
	theirs := createPageVia(t, app, tokenFor(t, s, other), "Gamma", "")

	for _, slug := range []string{first, second, theirs} {
		resp, _ := sendMessageVia(t, app, slug, "for "+slug)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, body := doRequest(t, app, authedJSONRequest(t, http.MethodGet, "/api/getmessages", token, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	messages := body["data"].([]any)
	require.Len(t, messages, 2)

	// The inbox carries each message's page so the client can label it.
	pageTitles := map[string]bool{}
	for _, m := range messages {
		page := m.(map[string]any)["feedback_page"].(map[string]any)
		pageTitles[page["title"].(string)] = true
	}
	assert.Equal(t, map[string]bool{"Alpha": true, "Beta": true}, pageTitles)
}

func TestGetAllMessagesEmpty(t *testing.T) {
	s, app, db := newTestServer(t)
	owner := createVerifiedUser(t, db, "quiet", "Sup3rSecret!")

	resp, body := doRequest(t, app, authedJSONRequest(t, http.MethodGet, "/api/getmessages",
		tokenFor(t, s, owner), nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	messages, ok := body["data"].([]any)
	require.True(t, ok, "data must be a list even when empty")
	assert.Empty(t, messages)
}

func TestDeleteMessage(t *testing.T) {
	s, app, db := newTestServer(t)
	owner := createVerifiedUser(t, db, "janitor", "Sup3rSecret!")
	token := tokenFor(t, s, owner)
	slug := createPageVia(t, app, token, "Cleanup", "")

	resp, _ := sendMessageVia(t, app, slug, "delete me")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = sendMessageVia(t, app, slug, "keep me")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	ids := messageIDsFor(t, db, slug)
	require.Len(t, ids, 2)

	resp, body := doRequest(t, app, authedJSONRequest(t, http.MethodDelete,
		fmt.Sprintf("/api/feedback-pages/%s/messages/%d", slug, ids[0]), token, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Message deleted successfully", body["message"])

	remaining := messageIDsFor(t, db, slug)
	require.Len(t, remaining, 1)
	assert.Equal(t, ids[1], remaining[0])
}

func TestDeleteMessageWrongPage(t *testing.T) {
	s, app, db := newTestServer(t)
	owner := createVerifiedUser(t, db, "scoped", "Sup3rSecret!")
	token := tokenFor(t, s, owner)
	first := createPageVia(t, app, token, "Page One", "")
	second := createPageVia(t, app, token, "Page Two", "")

	resp, _ := sendMessageVia(t, app, first, "lives on page one")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	ids := messageIDsFor(t, db, first)
	require.Len(t, ids, 1)

	// Deleting through the wrong page's slug must not reach the message.
	resp, _ = doRequest(t, app, authedJSONRequest(t, http.MethodDelete,
		fmt.Sprintf("/api/feedback-pages/%s/messages/%d", second, ids[0]), token, nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Len(t, messageIDsFor(t, db, first), 1)
}

func TestDeleteMessageNotOwned(t *testing.T) {
	s, app, db := newTestServer(t)
	owner := createVerifiedUser(t, db, "guarded", "Sup3rSecret!")
	intruder := createVerifiedUser(t, db, "meddler", "Sup3rSecret!")
	slug := createPageVia(t, app, tokenFor(t, s, owner), "Guarded Inbox", "")

	resp, _ := sendMessageVia(t, app, slug, "off limits")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	ids := messageIDsFor(t, db, slug)

	resp, _ = doRequest(t, app, authedJSONRequest(t, http.MethodDelete,
		fmt.Sprintf("/api/feedback-pages/%s/messages/%d", slug, ids[0]), tokenFor(t, s, intruder), nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Len(t, messageIDsFor(t, db, slug), 1)
}

func TestDeleteMessageInvalidID(t *testing.T) {
	s, app, db := newTestServer(t)
	owner := createVerifiedUser(t, db, "parser", "Sup3rSecret!")
	token := tokenFor(t, s, owner)
	slug := createPageVia(t, app, token, "Parse Me", "")

	resp, body := doRequest(t, app, authedJSONRequest(t, http.MethodDelete,
		"/api/feedback-pages/"+slug+"/messages/not-a-number", token, nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}
