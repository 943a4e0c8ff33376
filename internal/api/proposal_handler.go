// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/tradefair/tradefair-api/internal/api/shared"
	"github.com/tradefair/tradefair-api/internal/domain"
	"github.com/tradefair/tradefair-api/internal/platform/logger"
	"github.com/tradefair/tradefair-api/internal/service/trade"
)

// ProposalHandler handles trade proposal HTTP requests.
type ProposalHandler struct {
	tradeService trade.Service
	logger       *slog.Logger
}

// NewProposalHandler creates a new ProposalHandler.
func NewProposalHandler(tradeService trade.Service, log *slog.Logger) *ProposalHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProposalHandler")
	}
	return &ProposalHandler{
		tradeService: tradeService,
		logger:       log.With(slog.String("component", "proposal_handler")),
	}
}

// Create handles POST /proposals requests.
func (h *ProposalHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req CreateProposalRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	proposal, err := h.tradeService.Create(r.Context(), identity, trade.CreateInput{
		OfferedItemID: req.OfferedItemID,
		DesiredItemID: req.DesiredItemID,
		Message:       req.Message,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, proposal)
}

// List handles GET /proposals requests. Results are always limited to what
// the caller may see; explicit filters come from query parameters.
func (h *ProposalHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	filter := trade.ListFilter{
		Status: domain.ProposalStatus(r.URL.Query().Get("status")),
	}
	if raw := r.URL.Query().Get("proposer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid proposer_id")
			return
		}
		filter.ProposerID = id
	}
	if raw := r.URL.Query().Get("desired_item_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid desired_item_id")
			return
		}
		filter.DesiredItemID = id
	}

	proposals, err := h.tradeService.List(r.Context(), identity, filter)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if proposals == nil {
		proposals = []*domain.Proposal{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, proposals)
}

// Get handles GET /proposals/{id} requests.
func (h *ProposalHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	proposalID, err := getPathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	proposal, err := h.tradeService.Get(r.Context(), identity, proposalID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, proposal)
}

// Accept handles POST /proposals/{id}/accept requests.
func (h *ProposalHandler) Accept(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	proposalID, err := getPathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	proposal, err := h.tradeService.Accept(r.Context(), identity, proposalID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, proposal)
}

// Refuse handles POST /proposals/{id}/refuse requests.
func (h *ProposalHandler) Refuse(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	proposalID, err := getPathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	proposal, err := h.tradeService.Refuse(r.Context(), identity, proposalID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, proposal)
}

// Cancel handles DELETE /proposals/{id} requests.
func (h *ProposalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	proposalID, err := getPathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	if err := h.tradeService.Cancel(r.Context(), identity, proposalID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	log := logger.FromContextOrDefault(r.Context(), h.logger)
	log.Debug("proposal cancelled", slog.String("proposal_id", proposalID.String()))
	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}
