package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/fixturelab/matchbind/internal/domain/binding"
	"github.com/fixturelab/matchbind/internal/domain/identity"
	"github.com/fixturelab/matchbind/internal/usecase"
)

// SubmitBindings accepts a batch of fixture bindings, one request per
// asserted match across the three feeds.
func (h *Handler) SubmitBindings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitBindings")
	defer span.End()

	var req []bindingSubmitRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if len(req) == 0 {
		writeError(ctx, w, fmt.Errorf("%w: at least one binding request is required", usecase.ErrInvalidInput))
		return
	}
	for i, item := range req {
		if err := h.validateRequest(ctx, item); err != nil {
			writeError(ctx, w, fmt.Errorf("request %d: %w", i, err))
			return
		}
	}

	submissions := make([]usecase.FixtureSubmission, 0, len(req))
	for _, item := range req {
		submissions = append(submissions, usecase.FixtureSubmission{
			Source1: slotInputFromDTO(item.Source1, identity.SourceOne),
			Source2: slotInputFromDTO(item.Source2, identity.SourceTwo),
			Source3: slotInputFromDTO(item.Source3, identity.SourceThree),
		})
	}

	if err := h.bindingService.SubmitBindings(ctx, submissions); err != nil {
		h.logger.WarnContext(ctx, "submit bindings failed", "requests", len(req), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"submitted": len(req)})
}

func (h *Handler) ListBindings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListBindings")
	defer span.End()

	records, err := h.bindingService.ListBindings(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list bindings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]bindingRecordDTO, 0, len(records))
	for _, record := range records {
		items = append(items, recordToDTO(record))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

// CheckDuplicates reports which of the candidate leagues and teams already
// appear in stored bindings for the declared feed, team checks scoped to
// each candidate's league.
func (h *Handler) CheckDuplicates(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CheckDuplicates")
	defer span.End()

	req, ok := h.decodeCheckRequest(w, r)
	if !ok {
		return
	}

	report, err := h.bindingService.CheckDuplicates(ctx, identity.Source(req.Source), candidatesFromDTO(req.Matches))
	if err != nil {
		h.logger.WarnContext(ctx, "check duplicates failed", "source", req.Source, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, duplicateReportDTO{
		Leagues: report.Leagues,
		Teams:   report.Teams,
	})
}

// CheckExisting is the league-unscoped variant of CheckDuplicates.
func (h *Handler) CheckExisting(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CheckExisting")
	defer span.End()

	req, ok := h.decodeCheckRequest(w, r)
	if !ok {
		return
	}

	report, err := h.bindingService.CheckExisting(ctx, identity.Source(req.Source), candidatesFromDTO(req.Matches))
	if err != nil {
		h.logger.WarnContext(ctx, "check existing failed", "source", req.Source, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, duplicateReportDTO{
		Leagues: report.Leagues,
		Teams:   report.Teams,
	})
}

// DeleteTeamBinding retracts one team from its bound fixtures. Retracting a
// team that is not bound succeeds as a no-op.
func (h *Handler) DeleteTeamBinding(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteTeamBinding")
	defer span.End()

	query := r.URL.Query()
	sourceRaw := strings.TrimSpace(query.Get("source"))
	source, err := strconv.Atoi(sourceRaw)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: source must be an integer, got %q", usecase.ErrInvalidInput, sourceRaw))
		return
	}
	league := query.Get("league")
	team := query.Get("team")
	role := query.Get("role")

	if err := h.bindingService.DeleteTeamBinding(ctx, identity.Source(source), league, team, binding.Role(role)); err != nil {
		h.logger.WarnContext(ctx, "delete team binding failed",
			"source", source, "league", league, "team", team, "role", role, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeCheckRequest(w http.ResponseWriter, r *http.Request) (checkRequest, bool) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.decodeCheckRequest")
	defer span.End()

	var req checkRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return checkRequest{}, false
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return checkRequest{}, false
	}

	return req, true
}

type bindingSlotDTO struct {
	LeagueName string  `json:"leagueName" validate:"required"`
	HomeTeam   *string `json:"homeTeam"`
	AwayTeam   *string `json:"awayTeam"`
	Source     int     `json:"source" validate:"omitempty,min=1,max=3"`
}

type bindingSubmitRequest struct {
	Source1 bindingSlotDTO `json:"source1" validate:"required"`
	Source2 bindingSlotDTO `json:"source2" validate:"required"`
	Source3 bindingSlotDTO `json:"source3" validate:"required"`
}

type checkRequest struct {
	Source  int                 `json:"source" validate:"required"`
	Matches []matchCandidateDTO `json:"matches" validate:"dive"`
}

type matchCandidateDTO struct {
	League   string `json:"league"`
	HomeTeam string `json:"homeTeam"`
	AwayTeam string `json:"awayTeam"`
}

type duplicateReportDTO struct {
	Leagues []string `json:"leagues"`
	Teams   []string `json:"teams"`
}

type bindingSlotViewDTO struct {
	League   string  `json:"league"`
	HomeTeam *string `json:"homeTeam"`
	AwayTeam *string `json:"awayTeam"`
}

type bindingRecordDTO struct {
	ID        int64              `json:"id"`
	Source1   bindingSlotViewDTO `json:"source1"`
	Source2   bindingSlotViewDTO `json:"source2"`
	Source3   bindingSlotViewDTO `json:"source3"`
	CreatedAt string             `json:"createdAt"`
}

func slotInputFromDTO(dto bindingSlotDTO, declared identity.Source) usecase.SlotInput {
	source := identity.Source(dto.Source)
	if source == 0 {
		source = declared
	}
	return usecase.SlotInput{
		LeagueName: dto.LeagueName,
		HomeTeam:   dto.HomeTeam,
		AwayTeam:   dto.AwayTeam,
		Source:     source,
	}
}

func candidatesFromDTO(matches []matchCandidateDTO) []usecase.MatchCandidate {
	out := make([]usecase.MatchCandidate, 0, len(matches))
	for _, m := range matches {
		out = append(out, usecase.MatchCandidate{
			League:   m.League,
			HomeTeam: m.HomeTeam,
			AwayTeam: m.AwayTeam,
		})
	}
	return out
}

func recordToDTO(record binding.Record) bindingRecordDTO {
	return bindingRecordDTO{
		ID:        record.ID,
		Source1:   slotViewDTO(record.Slots[0]),
		Source2:   slotViewDTO(record.Slots[1]),
		Source3:   slotViewDTO(record.Slots[2]),
		CreatedAt: record.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func slotViewDTO(slot binding.Slot) bindingSlotViewDTO {
	return bindingSlotViewDTO{
		League:   slot.League,
		HomeTeam: slot.HomeTeam,
		AwayTeam: slot.AwayTeam,
	}
}
