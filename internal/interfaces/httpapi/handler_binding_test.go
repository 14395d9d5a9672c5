package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/fixturelab/matchbind/internal/domain/binding"
	"github.com/fixturelab/matchbind/internal/infrastructure/repository/memory"
	"github.com/fixturelab/matchbind/internal/platform/logging"
	"github.com/fixturelab/matchbind/internal/usecase"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	identityRepo := memory.NewIdentityRepository()
	bindingRepo := memory.NewBindingRepository(identityRepo)
	logger := logging.NewNop()

	bindingSvc := usecase.NewBindingService(bindingRepo, 2, binding.RetractionScopeAllSources, logger)
	resolverSvc := usecase.NewResolverService(identityRepo)
	handler := NewHandler(bindingSvc, resolverSvc, logger)

	return NewRouter(handler, logger, []string{"*"})
}

func doJSON(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) googleResponseEnvelope {
	t.Helper()

	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response failed: %v (body=%s)", err, rec.Body.String())
	}
	return envelope
}

const submitBody = `[
	{
		"source1": {"leagueName": "EPL", "homeTeam": "Arsenal", "awayTeam": "Chelsea"},
		"source2": {"leagueName": "Premier League", "homeTeam": "Arsenal FC", "awayTeam": "Chelsea FC"},
		"source3": {"leagueName": "ENG1", "homeTeam": "ARS", "awayTeam": "CHE"}
	}
]`

func TestSubmitAndListBindings(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/bindings", submitBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/bindings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}

	var listEnvelope struct {
		APIVersion string             `json:"apiVersion"`
		Data       []bindingRecordDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &listEnvelope); err != nil {
		t.Fatalf("decode list failed: %v", err)
	}
	if len(listEnvelope.Data) != 1 {
		t.Fatalf("expected 1 record, got %d", len(listEnvelope.Data))
	}

	record := listEnvelope.Data[0]
	if record.Source1.League != "EPL" {
		t.Fatalf("source1 league = %q", record.Source1.League)
	}
	if record.Source2.HomeTeam == nil || *record.Source2.HomeTeam != "Arsenal FC" {
		t.Fatalf("source2 home team = %v", record.Source2.HomeTeam)
	}
}

func TestSubmitBindings_InvalidPayload(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/bindings", `{"not": "a list"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-array payload, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/bindings", `[]`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty batch, got %d", rec.Code)
	}

	missingLeague := `[{"source1": {"leagueName": ""}, "source2": {"leagueName": "X"}, "source3": {"leagueName": "Y"}}]`
	rec = doJSON(t, router, http.MethodPost, "/api/bindings", missingLeague)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank league, got %d", rec.Code)
	}
}

func TestCheckDuplicatesEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/bindings", submitBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit status = %d", rec.Code)
	}

	checkBody := `{"source": 1, "matches": [{"league": "EPL", "homeTeam": "Arsenal", "awayTeam": "Liverpool"}]}`
	rec = doJSON(t, router, http.MethodPost, "/api/bindings/check-duplicates", checkBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("check status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var checkEnvelope struct {
		Data duplicateReportDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &checkEnvelope); err != nil {
		t.Fatalf("decode check failed: %v", err)
	}
	if len(checkEnvelope.Data.Leagues) != 1 || checkEnvelope.Data.Leagues[0] != "EPL" {
		t.Fatalf("leagues = %v", checkEnvelope.Data.Leagues)
	}
	if len(checkEnvelope.Data.Teams) != 1 || checkEnvelope.Data.Teams[0] != "Arsenal" {
		t.Fatalf("teams = %v", checkEnvelope.Data.Teams)
	}

	// Same candidates against another feed: nothing is shared.
	otherSource := `{"source": 2, "matches": [{"league": "EPL", "homeTeam": "Arsenal"}]}`
	rec = doJSON(t, router, http.MethodPost, "/api/bindings/check-duplicates", otherSource)
	if rec.Code != http.StatusOK {
		t.Fatalf("check status = %d", rec.Code)
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &checkEnvelope); err != nil {
		t.Fatalf("decode check failed: %v", err)
	}
	if len(checkEnvelope.Data.Leagues) != 0 || len(checkEnvelope.Data.Teams) != 0 {
		t.Fatalf("expected empty report for source 2, got %+v", checkEnvelope.Data)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/bindings/check-duplicates", `{"source": 9, "matches": []}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid source, got %d", rec.Code)
	}
}

func TestCheckExistingEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/bindings", submitBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit status = %d", rec.Code)
	}

	// League-unscoped: Arsenal is reported even under a different league.
	body := `{"source": 1, "matches": [{"league": "Serie A", "homeTeam": "Arsenal"}]}`
	rec = doJSON(t, router, http.MethodPost, "/api/bindings/check-existing", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("check-existing status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data duplicateReportDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(envelope.Data.Teams) != 1 || envelope.Data.Teams[0] != "Arsenal" {
		t.Fatalf("teams = %v", envelope.Data.Teams)
	}
}

func TestDeleteTeamBindingEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/bindings", submitBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/bindings/team?source=1&league=EPL&team=Arsenal&role=home", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/bindings", "")
	var listEnvelope struct {
		Data []bindingRecordDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &listEnvelope); err != nil {
		t.Fatalf("decode list failed: %v", err)
	}
	record := listEnvelope.Data[0]
	if record.Source1.HomeTeam != nil || record.Source2.HomeTeam != nil || record.Source3.HomeTeam != nil {
		t.Fatalf("home teams should be cleared on all sources: %+v", record)
	}
	if record.Source1.League != "EPL" {
		t.Fatalf("league must survive retraction, got %q", record.Source1.League)
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/bindings/team?source=abc&league=EPL&team=Arsenal&role=home", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric source, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/bindings/team?source=1&league=EPL&team=Arsenal&role=bench", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad role, got %d", rec.Code)
	}
}

func TestResolveIdentityEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/identities/resolve-league", `{"name": "EPL", "source": 1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("resolve league status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var leagueEnvelope struct {
		Data leagueDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &leagueEnvelope); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if leagueEnvelope.Data.Name != "EPL" || leagueEnvelope.Data.ID == 0 {
		t.Fatalf("unexpected league: %+v", leagueEnvelope.Data)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/identities/resolve-team", `{"name": "Arsenal", "source": 1, "leagueName": "EPL"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("resolve team status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var teamEnvelope struct {
		Data teamDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &teamEnvelope); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if teamEnvelope.Data.LeagueID != leagueEnvelope.Data.ID {
		t.Fatalf("team league id = %d, want %d", teamEnvelope.Data.LeagueID, leagueEnvelope.Data.ID)
	}

	// Team resolution requires the league identity to exist first.
	rec = doJSON(t, router, http.MethodPost, "/api/identities/resolve-team", `{"name": "Inter", "source": 2, "leagueName": "Serie A"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing league, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected healthz body: %s", rec.Body.String())
	}
}
