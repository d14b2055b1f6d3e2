package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/services"
	"atelier/internal/httputil"
)

// FinanceHandler handles revenue/cost reports, targets, sync and push
type FinanceHandler struct {
	financeService services.FinanceService
	syncService    services.SyncService
	pushService    services.PushService
	logger         *slog.Logger
}

// NewFinanceHandler creates a new finance handler
func NewFinanceHandler(
	financeService services.FinanceService,
	syncService services.SyncService,
	pushService services.PushService,
	logger *slog.Logger,
) *FinanceHandler {
	return &FinanceHandler{
		financeService: financeService,
		syncService:    syncService,
		pushService:    pushService,
		logger:         logger,
	}
}

// parseEntryFilter builds an EntryFilter from query parameters. Dimension
// params repeat or hold comma-separated values; date bounds are inclusive
// YYYY-MM-DD.
func parseEntryFilter(q url.Values) (models.EntryFilter, error) {
	var filter models.EntryFilter

	if v := q.Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, fmt.Errorf("%w: from must be YYYY-MM-DD", domain.ErrValidation)
		}
		filter.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, fmt.Errorf("%w: to must be YYYY-MM-DD", domain.ErrValidation)
		}
		filter.To = &t
	}

	filter.Clients = splitParam(q["client"])
	filter.Types = splitParam(q["type"])
	filter.VATSections = splitParam(q["vat_section"])
	filter.Statuses = splitParam(q["status"])

	return filter, nil
}

// splitParam flattens repeated query params and comma-separated lists
// into one slice, dropping empty items.
func splitParam(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Revenue serves the filtered and grouped revenue report
// GET /api/finance/revenue
func (h *FinanceHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)
	q := r.URL.Query()

	filter, err := parseEntryFilter(q)
	if err != nil {
		handleError(w, err)
		return
	}

	groupBy := models.GroupKey(q.Get("group_by"))
	if groupBy == "" {
		groupBy = models.GroupMonth
	}

	report, err := h.financeService.RevenueReport(r.Context(), ownerID, filter, groupBy)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, report)
}

// Costs serves the filtered and grouped cost report
// GET /api/finance/costs
func (h *FinanceHandler) Costs(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)
	q := r.URL.Query()

	filter, err := parseEntryFilter(q)
	if err != nil {
		handleError(w, err)
		return
	}

	groupBy := models.GroupKey(q.Get("group_by"))
	if groupBy == "" {
		groupBy = models.GroupMonth
	}

	report, err := h.financeService.CostReport(r.Context(), ownerID, filter, groupBy)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, report)
}

// Pacing serves the year-to-date progress against the annual target
// GET /api/finance/pacing?year=&metric=
func (h *FinanceHandler) Pacing(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)
	q := r.URL.Query()

	year := time.Now().UTC().Year()
	if v := q.Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			handleError(w, fmt.Errorf("%w: year must be an integer", domain.ErrValidation))
			return
		}
		year = parsed
	}

	metric := q.Get("metric")
	if metric == "" {
		metric = models.MetricRevenue
	}

	report, err := h.financeService.PacingReport(r.Context(), ownerID, year, metric)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, report)
}

// ListTargets returns every annual target, newest year first
// GET /api/finance/targets
func (h *FinanceHandler) ListTargets(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	targets, err := h.financeService.ListTargets(r.Context(), ownerID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, targets)
}

// UpsertTarget creates or replaces the target for a year
// PUT /api/finance/targets/{year}
func (h *FinanceHandler) UpsertTarget(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		handleError(w, fmt.Errorf("%w: year must be an integer", domain.ErrValidation))
		return
	}

	var req models.UpsertTargetRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	target, err := h.financeService.UpsertTarget(r.Context(), ownerID, year, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, target)
}

// Sync pulls revenue and cost entries from the configured source
// POST /api/finance/sync
func (h *FinanceHandler) Sync(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	result, err := h.syncService.SyncEntries(r.Context(), ownerID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// pushBody optionally restricts a push run to specific entry IDs.
type pushBody struct {
	IDs []string `json:"ids"`
}

// Push sends pending entries to the configured sink. Partial completion
// is reported, not failed.
// POST /api/finance/push
func (h *FinanceHandler) Push(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	var body pushBody
	if r.ContentLength > 0 {
		if err := httputil.ParseJSON(w, r, &body); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	result, err := h.pushService.PushPending(r.Context(), ownerID, body.IDs)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
