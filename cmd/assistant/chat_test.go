package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"farmconnect/pkg/models"
)

func TestChatCreatesConversation(t *testing.T) {
	s := newTestServer(t)
	stub := &stubAI{reply: "Use drip irrigation to save water."}
	s.ai = stub
	user := uuid.NewString()

	w := httptest.NewRecorder()
	s.chat(jsonContext(t, w, "POST", "/api/v1/chat", chatRequest{
		UserUid:  user,
		Message:  "How should I water my cotton field?",
		Language: "gu",
	}))
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Use drip irrigation to save water.", resp["reply"])
	assert.Equal(t, "gu", resp["language"])
	assert.Equal(t, "gu", stub.lang)

	// Both sides of the exchange were stored.
	var msgs []models.ChatMessage
	assert.NoError(t, s.db.Order("id ASC").Find(&msgs).Error)
	assert.Len(t, msgs, 2)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "assistant", msgs[1].Role)

	var conv models.Conversation
	assert.NoError(t, s.db.First(&conv).Error)
	assert.Equal(t, user, conv.UserUid)
	assert.Equal(t, "How should I water my cotton field?", conv.Title)
}

func TestChatContinuesConversation(t *testing.T) {
	s := newTestServer(t)
	stub := &stubAI{reply: "Apply urea in split doses."}
	s.ai = stub

	conv := models.Conversation{ConversationUid: uuid.NewString(), UserUid: uuid.NewString(), Language: "hi"}
	assert.NoError(t, s.db.Create(&conv).Error)
	assert.NoError(t, s.db.Create(&models.ChatMessage{
		ConversationUid: conv.ConversationUid, Role: "user", Content: "Which fertilizer for wheat?",
	}).Error)
	assert.NoError(t, s.db.Create(&models.ChatMessage{
		ConversationUid: conv.ConversationUid, Role: "assistant", Content: "DAP at sowing.",
	}).Error)

	w := httptest.NewRecorder()
	s.chat(jsonContext(t, w, "POST", "/api/v1/chat", chatRequest{
		ConversationUid: conv.ConversationUid,
		UserUid:         conv.UserUid,
		Message:         "And after sowing?",
	}))
	assert.Equal(t, http.StatusOK, w.Code)

	// The model saw the full history including the new message.
	assert.Len(t, stub.history, 3)
	assert.Equal(t, "And after sowing?", stub.history[2].Content)
	// The conversation's language wins over the request's.
	assert.Equal(t, "hi", stub.lang)
}

func TestChatUnknownConversation(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.chat(jsonContext(t, w, "POST", "/api/v1/chat", chatRequest{
		ConversationUid: uuid.NewString(),
		UserUid:         uuid.NewString(),
		Message:         "hello",
	}))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatModelFailure(t *testing.T) {
	s := newTestServer(t)
	s.ai = &stubAI{err: errUpstream}

	w := httptest.NewRecorder()
	s.chat(jsonContext(t, w, "POST", "/api/v1/chat", chatRequest{
		UserUid: uuid.NewString(),
		Message: "hello",
	}))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestConversationLifecycle(t *testing.T) {
	s := newTestServer(t)
	user := uuid.NewString()

	w := httptest.NewRecorder()
	s.createConversation(jsonContext(t, w, "POST", "/api/v1/conversations", conversationRequest{
		UserUid: user, Title: "Pests", Language: "xx",
	}))
	assert.Equal(t, http.StatusCreated, w.Code)

	var conv models.Conversation
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &conv))
	// Unknown languages collapse to English.
	assert.Equal(t, "en", conv.Language)

	w = httptest.NewRecorder()
	s.listConversations(jsonContext(t, w, "GET", "/api/v1/conversations?user_id="+user, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var convs []models.Conversation
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &convs))
	assert.Len(t, convs, 1)

	w = httptest.NewRecorder()
	c := jsonContext(t, w, "GET", "/api/v1/conversations/x", nil)
	c.Params = gin.Params{{Key: "id", Value: conv.ConversationUid}}
	s.getConversation(c)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	c = jsonContext(t, w, "DELETE", "/api/v1/conversations/x", nil)
	c.Params = gin.Params{{Key: "id", Value: conv.ConversationUid}}
	s.deleteConversation(c)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	c = jsonContext(t, w, "GET", "/api/v1/conversations/x", nil)
	c.Params = gin.Params{{Key: "id", Value: conv.ConversationUid}}
	s.getConversation(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
