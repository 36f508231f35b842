package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/terra-clan/closet-profile/internal/models"
	"github.com/terra-clan/closet-profile/internal/wizard"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Live message types
const (
	LiveBalance = "balance"
	LiveText    = "text"
	LiveError   = "error"
)

// LiveMessage is exchanged over the live channel. Clients send a type and
// value; the server answers with the readout for that input.
type LiveMessage struct {
	Type     string `json:"type"`
	Value    string `json:"value,omitempty"`
	Readout  string `json:"readout,omitempty"`
	Shelving int    `json:"shelving"`
	Length   int    `json:"length"`
}

// handleLive keeps the slider readout and the notes counter in sync while the
// client types or drags. Every update is saved like a regular action.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if _, err := s.manager.Get(r.Context(), token); err != nil {
		status, _, message := errorStatus(err)
		http.Error(w, message, status)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	masked := models.MaskToken(token)
	slog.Info("live channel connected", "token", masked)

	// The request context ends with the route timeout; the channel outlives it.
	ctx := context.Background()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Debug("websocket read error", "error", err)
			}
			break
		}

		var msg LiveMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Debug("invalid message format", "error", err)
			continue
		}

		reply, err := s.liveUpdate(ctx, token, msg)
		if errors.Is(err, wizard.ErrSessionNotFound) || errors.Is(err, wizard.ErrSessionExpired) {
			s.sendLiveMessage(conn, LiveMessage{Type: LiveError, Value: err.Error()})
			break
		}
		if err != nil {
			slog.Debug("live update rejected", "error", err, "token", masked)
			reply = LiveMessage{Type: LiveError, Value: err.Error()}
		}
		if err := s.sendLiveMessage(conn, reply); err != nil {
			break
		}
	}

	slog.Info("live channel disconnected", "token", masked)
}

func (s *Server) liveUpdate(ctx context.Context, token string, msg LiveMessage) (LiveMessage, error) {
	switch msg.Type {
	case LiveBalance:
		sess, err := s.manager.Apply(ctx, token, wizard.Action{Kind: wizard.ActionSetBalance, Value: msg.Value})
		if err != nil {
			return LiveMessage{}, err
		}
		shelving := sess.Form.Shelving()
		return LiveMessage{Type: LiveBalance, Readout: wizard.FormatBalance(shelving), Shelving: shelving}, nil
	case LiveText:
		sess, err := s.manager.Apply(ctx, token, wizard.Action{Kind: wizard.ActionSetText, Value: msg.Value})
		if err != nil {
			return LiveMessage{}, err
		}
		return LiveMessage{Type: LiveText, Length: sess.Form.TextLength()}, nil
	}
	return LiveMessage{}, errors.New("unknown message type " + msg.Type)
}

func (s *Server) sendLiveMessage(conn *websocket.Conn, msg LiveMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal live message", "error", err)
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Debug("failed to send live message", "error", err)
		return err
	}
	return nil
}
