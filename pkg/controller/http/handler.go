package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemos/pkg/domain/model"
	"github.com/secmon-lab/mnemos/pkg/domain/types"
	"github.com/secmon-lab/mnemos/pkg/usecase"
	"github.com/secmon-lab/mnemos/pkg/utils/errutil"
	"github.com/secmon-lab/mnemos/pkg/utils/logging"
)

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string     `json:"reply"`
	Tone  types.Tone `json:"tone"`
}

type profileResponse struct {
	Profile *model.UserProfile  `json:"profile"`
	Stats   *model.ProfileStats `json:"stats"`
}

type historyResponse struct {
	Messages []*model.Message `json:"messages"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleChat(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode chat request"), http.StatusBadRequest)
			return
		}

		result, err := uc.Chat.HandleTurn(ctx, types.UserID(req.UserID), req.Message)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, statusFor(err))
			return
		}

		respondJSON(w, http.StatusOK, chatResponse{
			Reply: result.Reply,
			Tone:  result.Tone,
		})
	}
}

func handleProfile(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := types.UserID(chi.URLParam(r, "userID"))

		profile, stats, err := uc.Profile.GetProfileAndStats(ctx, userID)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, statusFor(err))
			return
		}

		respondJSON(w, http.StatusOK, profileResponse{Profile: profile, Stats: stats})
	}
}

func handleHistory(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := types.UserID(chi.URLParam(r, "userID"))

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(types.ErrInvalidInput, "invalid limit parameter", goerr.V("limit", raw)), http.StatusBadRequest)
				return
			}
			limit = v
		}

		messages, err := uc.Profile.GetHistory(ctx, userID, limit)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, statusFor(err))
			return
		}
		if messages == nil {
			messages = []*model.Message{}
		}

		respondJSON(w, http.StatusOK, historyResponse{Messages: messages})
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Headers are already written; nothing left to do but log
		logging.Default().Error("failed to encode response", "error", err.Error())
	}
}
