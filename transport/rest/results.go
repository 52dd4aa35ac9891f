package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/checkers-backend/internal/entity"
	"github.com/rocketscienceinc/checkers-backend/internal/repository"
)

const recentResultsLimit = 50

type resultSource interface {
	Recent(ctx context.Context, limit int64) ([]*entity.MatchResult, error)
}

type ResultsHandler interface {
	ResultsHandler(w http.ResponseWriter, r *http.Request)
}

type resultsHandler struct {
	logger  *slog.Logger
	results resultSource
}

// NewResultsHandler - serves the archived match results. A nil source means
// the archive is disabled and the endpoint always returns an empty list.
func NewResultsHandler(logger *slog.Logger, results resultSource) ResultsHandler {
	return &resultsHandler{
		logger:  logger.With("component", "rest"),
		results: results,
	}
}

func (that *resultsHandler) ResultsHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ResultsHandler")

	recent := []*entity.MatchResult{}

	if that.results != nil {
		results, err := that.results.Recent(r.Context(), recentResultsLimit)

		switch {
		case errors.Is(err, repository.ErrNoResults):
			// empty archive is not an error
		case err != nil:
			log.Error("failed to read results", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)

			return
		default:
			recent = results
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(recent); err != nil {
		log.Error("failed to encode results", "error", err)
	}
}
