package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"farmconnect/pkg/ai"
	"farmconnect/pkg/apperr"
	"farmconnect/pkg/models"
)

type chatRequest struct {
	ConversationUid string `json:"conversation_id"`
	UserUid         string `json:"user_id" binding:"required"`
	Message         string `json:"message" binding:"required"`
	Language        string `json:"language"`
}

// chat appends the user's message to a conversation (creating one on the
// first message), asks the model for a reply in the conversation's language
// and stores both sides of the exchange.
func (s *server) chat(c *gin.Context) {
	if s.ai == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant is not configured"})
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lang := models.ParseLanguage(req.Language)

	var conv models.Conversation
	if req.ConversationUid != "" {
		err := s.db.Where("conversation_uid = ?", req.ConversationUid).First(&conv).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.fail(c, fmt.Errorf("conversation: %w", apperr.ErrNotFound))
			return
		}
		if err != nil {
			s.fail(c, err)
			return
		}
	} else {
		conv = models.Conversation{
			ConversationUid: uuid.NewString(),
			UserUid:         req.UserUid,
			Title:           truncate(req.Message, 50),
			Language:        string(lang),
		}
		if err := s.db.Create(&conv).Error; err != nil {
			s.fail(c, err)
			return
		}
	}

	userMsg := models.ChatMessage{
		ConversationUid: conv.ConversationUid,
		Role:            "user",
		Content:         req.Message,
	}
	if err := s.db.Create(&userMsg).Error; err != nil {
		s.fail(c, err)
		return
	}

	var history []models.ChatMessage
	err := s.db.Where("conversation_uid = ?", conv.ConversationUid).
		Order("created_at ASC, id ASC").
		Find(&history).Error
	if err != nil {
		s.fail(c, err)
		return
	}

	aiHistory := make([]ai.Message, 0, len(history))
	for _, m := range history {
		aiHistory = append(aiHistory, ai.Message{Role: m.Role, Content: m.Content})
	}

	reply, err := s.ai.Generate(c.Request.Context(), aiHistory, conv.Language)
	if err != nil {
		log.Printf("Assistant reply failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "assistant is unavailable, try again later"})
		return
	}

	assistantMsg := models.ChatMessage{
		ConversationUid: conv.ConversationUid,
		Role:            "assistant",
		Content:         reply,
	}
	if err := s.db.Create(&assistantMsg).Error; err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation_id": conv.ConversationUid,
		"reply":           reply,
		"language":        conv.Language,
	})
}

type conversationRequest struct {
	UserUid  string `json:"user_id" binding:"required"`
	Title    string `json:"title"`
	Language string `json:"language"`
}

func (s *server) createConversation(c *gin.Context) {
	var req conversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv := models.Conversation{
		ConversationUid: uuid.NewString(),
		UserUid:         req.UserUid,
		Title:           req.Title,
		Language:        string(models.ParseLanguage(req.Language)),
	}
	if err := s.db.Create(&conv).Error; err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, conv)
}

func (s *server) listConversations(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	var convs []models.Conversation
	err := s.db.Where("user_uid = ?", userID).Order("updated_at DESC").Find(&convs).Error
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, convs)
}

func (s *server) getConversation(c *gin.Context) {
	var conv models.Conversation
	err := s.db.Preload("Messages", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	}).Where("conversation_uid = ?", c.Param("id")).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.fail(c, fmt.Errorf("conversation: %w", apperr.ErrNotFound))
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (s *server) deleteConversation(c *gin.Context) {
	uid := c.Param("id")

	res := s.db.Where("conversation_uid = ?", uid).Delete(&models.Conversation{})
	if res.Error != nil {
		s.fail(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		s.fail(c, fmt.Errorf("conversation: %w", apperr.ErrNotFound))
		return
	}
	// sqlite does not always honor the cascade; clean up explicitly.
	if err := s.db.Where("conversation_uid = ?", uid).Delete(&models.ChatMessage{}).Error; err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
