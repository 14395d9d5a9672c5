package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/fixturelab/matchbind/internal/domain/identity"
	"github.com/fixturelab/matchbind/internal/usecase"
)

// ResolveLeague returns the canonical identity for a (name, source) pair,
// creating it on first sight.
func (h *Handler) ResolveLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResolveLeague")
	defer span.End()

	var req resolveLeagueRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	league, err := h.resolverService.ResolveLeague(ctx, req.Name, identity.Source(req.Source))
	if err != nil {
		h.logger.WarnContext(ctx, "resolve league failed", "source", req.Source, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueDTO{
		ID:     league.ID,
		Name:   league.Name,
		Source: int(league.Source),
	})
}

// ResolveTeam resolves a team identity under an already resolved league.
func (h *Handler) ResolveTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResolveTeam")
	defer span.End()

	var req resolveTeamRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	team, err := h.resolverService.ResolveTeam(ctx, req.Name, identity.Source(req.Source), req.LeagueName)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve team failed", "source", req.Source, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamDTO{
		ID:       team.ID,
		Name:     team.Name,
		Source:   int(team.Source),
		LeagueID: team.LeagueID,
	})
}

type resolveLeagueRequest struct {
	Name   string `json:"name" validate:"required"`
	Source int    `json:"source" validate:"required"`
}

type resolveTeamRequest struct {
	Name       string `json:"name" validate:"required"`
	Source     int    `json:"source" validate:"required"`
	LeagueName string `json:"leagueName" validate:"required"`
}

type leagueDTO struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Source int    `json:"source"`
}

type teamDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Source   int    `json:"source"`
	LeagueID int64  `json:"leagueId"`
}
