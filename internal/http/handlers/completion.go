package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"flowershop/internal/domain"
	"flowershop/internal/providers/chat"
)

type completionRequest struct {
	Messages []chat.Message `json:"messages"`
}

// Completion streams the assistant reply in the data stream protocol.
func (a *App) Completion(w http.ResponseWriter, r *http.Request) {
	var req completionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	if err := chat.Validate(req.Messages); err != nil {
		a.error(w, http.StatusBadRequest, "Invalid messages", err.Error())
		return
	}

	chat.SetHeaders(w.Header())
	w.WriteHeader(http.StatusOK)
	enc := chat.NewEncoder(w, "msg-"+uuid.NewString())
	logger := a.log(r)

	broken := false
	for ev := range a.Chat.Stream(r.Context(), req.Messages) {
		if broken {
			continue
		}
		if ev.Type == chat.EventError {
			evt := logger.Error().Err(ev.Err)
			if errors.Is(ev.Err, domain.ErrProviderFailure) {
				evt = evt.Str("kind", "provider")
			}
			evt.Msg("completion stream failed")
		}
		if err := enc.Encode(ev); err != nil {
			logger.Warn().Err(err).Msg("client went away during completion stream")
			broken = true
		}
	}
}
