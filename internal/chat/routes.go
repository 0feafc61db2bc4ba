package chat

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/shopchat/internal/auth"
	"github.com/ziadkadry99/shopchat/internal/store"
)

// MaxMessageLength is the largest accepted chat message, in characters.
const MaxMessageLength = 2000

// RegisterRoutes mounts the chat API routes. All of them require a
// valid bearer token.
func RegisterRoutes(r chi.Router, orch *Orchestrator, chats *store.ChatStore, authSvc *auth.Service) {
	r.Route("/api/chat", func(r chi.Router) {
		r.Use(authSvc.RequireAuth)
		r.Post("/", handleChat(orch))
		r.Get("/ws", handleWebsocket(orch))
		r.Get("/conversations", handleListConversations(chats))
		r.Get("/conversations/{conversationID}/messages", handleConversationMessages(chats))
		r.Delete("/conversations/{conversationID}", handleDeleteConversation(chats))
	})
}

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
}

type chatResponse struct {
	ConversationID   string `json:"conversation_id"`
	Response         string `json:"response"`
	MessageID        string `json:"message_id"`
	TokensUsed       int    `json:"tokens_used"`
	ProcessingTimeMs int64  `json:"processing_time"`
	Timestamp        string `json:"timestamp"`
}

func validateMessage(message string) string {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" || len([]rune(trimmed)) > MaxMessageLength {
		return ""
	}
	return trimmed
}

func handleChat(orch *Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		message := validateMessage(req.Message)
		if message == "" {
			http.Error(w, `{"error":"message must be between 1 and 2000 characters"}`, http.StatusBadRequest)
			return
		}

		result, err := orch.ProcessTurn(r.Context(), req.ConversationID, auth.UserID(r.Context()), message)
		if err != nil {
			http.Error(w, `{"error":"failed to process message"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResponse{
			ConversationID:   result.ConversationID,
			Response:         result.Reply,
			MessageID:        result.MessageID,
			TokensUsed:       result.TokensUsed,
			ProcessingTimeMs: result.ProcessingTimeMs,
			Timestamp:        time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func handleListConversations(chats *store.ChatStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conversations, err := chats.ListConversations(r.Context(), auth.UserID(r.Context()))
		if err != nil {
			http.Error(w, `{"error":"failed to fetch conversations"}`, http.StatusInternalServerError)
			return
		}
		if conversations == nil {
			conversations = []store.ConversationSummary{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"conversations": conversations})
	}
}

func handleConversationMessages(chats *store.ChatStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conversationID := chi.URLParam(r, "conversationID")

		conv, err := chats.FindConversation(r.Context(), conversationID, auth.UserID(r.Context()))
		if err != nil {
			http.Error(w, `{"error":"failed to fetch messages"}`, http.StatusInternalServerError)
			return
		}
		if conv == nil {
			http.Error(w, `{"error":"conversation not found"}`, http.StatusNotFound)
			return
		}

		messages, err := chats.ListMessages(r.Context(), conv.ID, 0)
		if err != nil {
			http.Error(w, `{"error":"failed to fetch messages"}`, http.StatusInternalServerError)
			return
		}
		if messages == nil {
			messages = []store.Message{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"conversation_id": conv.ID,
			"title":           conv.Title,
			"messages":        messages,
		})
	}
}

func handleDeleteConversation(chats *store.ChatStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conversationID := chi.URLParam(r, "conversationID")

		conv, err := chats.FindConversation(r.Context(), conversationID, auth.UserID(r.Context()))
		if err != nil {
			http.Error(w, `{"error":"failed to delete conversation"}`, http.StatusInternalServerError)
			return
		}
		if conv == nil {
			http.Error(w, `{"error":"conversation not found"}`, http.StatusNotFound)
			return
		}

		if err := chats.DeleteConversation(r.Context(), conv.ID); err != nil {
			http.Error(w, `{"error":"failed to delete conversation"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Conversation deleted successfully"})
	}
}
