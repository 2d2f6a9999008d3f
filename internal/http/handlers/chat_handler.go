package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/innies-app/innies-backend/internal/http/handlers/common"
	"github.com/innies-app/innies-backend/internal/http/response"
	"github.com/innies-app/innies-backend/internal/service"
	"github.com/innies-app/innies-backend/internal/storage"
)

// AttachmentsURLPrefix префикс, под которым раздаются сохранённые вложения.
const AttachmentsURLPrefix = "/attachments"

type ChatHandler struct {
	chats   *service.ChatService
	storage *storage.AttachmentStorage
}

func NewChatHandler(chats *service.ChatService, storage *storage.AttachmentStorage) *ChatHandler {
	return &ChatHandler{chats: chats, storage: storage}
}

// CreateChat POST /chats
func (h *ChatHandler) CreateChat(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}

	var req struct {
		Participants []string `json:"participants" binding:"required,min=1,dive,uuid"`
		Title        *string  `json:"title"`
	}
	if !common.BindJSON(c, &req) {
		return
	}

	chat, err := h.chats.CreateChat(c.Request.Context(), userID, parseUUIDs(req.Participants), req.Title)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, chat)
}

// ListChats GET /chats
func (h *ChatHandler) ListChats(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}

	chats, err := h.chats.ListMyChats(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, chats)
}

// GetChat GET /chats/:id
func (h *ChatHandler) GetChat(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	chat, err := h.chats.GetChat(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, chat)
}

// ListMessages GET /chats/:id/messages?limit=&offset=
func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	limit := common.ParseIntQuery(c, "limit", 50)
	offset := common.ParseIntQuery(c, "offset", 0)

	messages, err := h.chats.ListMessages(c.Request.Context(), userID, id, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, messages)
}

// SendMessage POST /chats/:id/messages
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Content     string   `json:"content" binding:"required"`
		Attachments []string `json:"attachments"`
	}
	if !common.BindJSON(c, &req) {
		return
	}

	message, err := h.chats.SendMessage(c.Request.Context(), userID, id, req.Content, req.Attachments)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, message)
}

// MarkRead POST /messages/read
func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}

	var req struct {
		MessageIDs []string `json:"message_ids" binding:"required,min=1,dive,uuid"`
	}
	if !common.BindJSON(c, &req) {
		return
	}

	updated, err := h.chats.MarkMessagesRead(c.Request.Context(), userID, parseUUIDs(req.MessageIDs))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"updated": updated})
}

// UploadAttachment POST /chats/:id/attachments (multipart, поле file)
func (h *ChatHandler) UploadAttachment(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}
	chatID, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	// Загружать могут только участники чата.
	if _, err := h.chats.GetChat(c.Request.Context(), userID, chatID); err != nil {
		response.Error(c, err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "поле file обязательно")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.BadRequest(c, "не удалось прочитать файл")
		return
	}
	defer src.Close()

	stored, err := h.storage.Save(c.Request.Context(), chatID, file.Filename, src)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUnsupportedType):
			response.BadRequest(c, "неподдерживаемый формат файла. Разрешены изображения и PDF")
		case errors.Is(err, storage.ErrFileTooLarge):
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, response.Response{
				Error: &response.ErrorInfo{Code: "FILE_TOO_LARGE", Message: "файл слишком большой"},
			})
		case errors.Is(err, storage.ErrEmptyFile):
			response.BadRequest(c, "файл не может быть пустым")
		default:
			response.Error(c, fmt.Errorf("chat handler: save attachment %w", err))
		}
		return
	}

	response.Created(c, gin.H{
		"url":  path.Join(AttachmentsURLPrefix, stored.Path),
		"mime": stored.MIME,
		"size": stored.Size,
	})
}
