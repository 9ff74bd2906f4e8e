package service

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/tieubaoca/rag-studio-be/types"
)

// WebSocketService serves the interactive chat channel. Chat frames run
// a knowledge-base query with the stored settings.
type WebSocketService struct {
	rag      *RAGService
	settings *SettingsService
	upgrader websocket.Upgrader
}

func NewWebSocketService(rag *RAGService, settings *SettingsService) *WebSocketService {
	return &WebSocketService{
		rag:      rag,
		settings: settings,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
	}
}

func (s *WebSocketService) HandleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(512 * 1024)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Msg("websocket read error")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var req types.WebsocketRequest
		if err := json.Unmarshal(p, &req); err != nil {
			s.writeError(conn, "invalid message")
			continue
		}

		switch req.Type {
		case types.TypeWebsocketPing:
			if err := conn.WriteJSON(types.WebsocketResponse{Type: types.TypeWebsocketPong}); err != nil {
				log.Warn().Err(err).Msg("websocket write error")
			}
		case types.TypeWebsocketChat:
			payloadBytes, err := json.Marshal(req.Payload)
			if err != nil {
				s.writeError(conn, "invalid payload")
				continue
			}
			var payload types.WebsocketChatPayload
			if err := json.Unmarshal(payloadBytes, &payload); err != nil {
				s.writeError(conn, "invalid payload")
				continue
			}
			res, err := s.chat(ctx, payload)
			if err != nil {
				log.Error().Err(err).Msg("chat query failed")
				s.writeError(conn, err.Error())
				continue
			}
			if err := conn.WriteJSON(types.WebsocketResponse{
				Type:    types.TypeWebsocketChat,
				Payload: res,
			}); err != nil {
				log.Warn().Err(err).Msg("websocket write error")
			}
		default:
			s.writeError(conn, "unknown message type")
		}
	}
}

// chat runs the query with the persisted settings, the configuration
// source for the websocket channel.
func (s *WebSocketService) chat(ctx context.Context, payload types.WebsocketChatPayload) (*types.QueryResponse, error) {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	req := types.QueryRequest{
		Query:             payload.Query,
		EmbeddingProvider: settings.EmbeddingProvider,
		EmbeddingConfig:   settings.EmbeddingConfig(),
		LLMProvider:       settings.LLMProvider,
		LLMConfig:         settings.LLMConfig(),
		MinScore:          settings.RetrievalAccuracy,
		History:           payload.History,
	}
	return s.rag.Query(ctx, req, settings.ChatHistoryLimit)
}

func (s *WebSocketService) writeError(conn *websocket.Conn, msg string) {
	res := types.WebsocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: types.ErrorResponse{Error: msg},
	}
	if err := conn.WriteJSON(res); err != nil {
		log.Warn().Err(err).Msg("websocket write error")
	}
}
