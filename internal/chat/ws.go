package chat

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/shopchat/internal/auth"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type           string `json:"type"` // "message"
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type             string `json:"type"` // "response" or "error"
	ConversationID   string `json:"conversation_id"`
	Content          string `json:"content"`
	MessageID        string `json:"message_id,omitempty"`
	TokensUsed       int    `json:"tokens_used,omitempty"`
	ProcessingTimeMs int64  `json:"processing_time,omitempty"`
}

// handleWebsocket runs a message-per-frame chat session over a single
// websocket connection. Each frame goes through the same turn pipeline
// as the REST endpoint.
func handleWebsocket(orch *Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.UserID(r.Context())

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("chat: websocket upgrade: %v", err)
			return
		}
		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("chat: websocket read: %v", err)
				}
				return
			}

			var req wsRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				sendWsError(conn, "", "invalid message format")
				continue
			}
			if req.Type != "" && req.Type != "message" {
				sendWsError(conn, req.ConversationID, "unknown message type: "+req.Type)
				continue
			}

			message := validateMessage(req.Content)
			if message == "" {
				sendWsError(conn, req.ConversationID, "content must be between 1 and 2000 characters")
				continue
			}

			// The socket outlives the request deadline set by the
			// server's timeout middleware, so each turn runs on its
			// own context.
			result, err := orch.ProcessTurn(context.Background(), req.ConversationID, userID, message)
			if err != nil {
				log.Printf("chat: websocket turn: %v", err)
				sendWsError(conn, req.ConversationID, "failed to process message")
				continue
			}

			sendWsResponse(conn, wsResponse{
				Type:             "response",
				ConversationID:   result.ConversationID,
				Content:          result.Reply,
				MessageID:        result.MessageID,
				TokensUsed:       result.TokensUsed,
				ProcessingTimeMs: result.ProcessingTimeMs,
			})
		}
	}
}

func sendWsResponse(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("chat: websocket write: %v", err)
	}
}

func sendWsError(conn *websocket.Conn, conversationID, message string) {
	resp := wsResponse{
		Type:           "error",
		ConversationID: conversationID,
		Content:        message,
	}
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("chat: websocket write error: %v", err)
	}
}
