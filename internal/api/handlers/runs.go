package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/payopt/internal/api/dto"
	"github.com/eshaffer321/payopt/internal/infrastructure/storage"
)

// RunsHandler handles audited run requests.
type RunsHandler struct {
	*Base
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(repo storage.Repository) *RunsHandler {
	return &RunsHandler{
		Base: NewBase(repo),
	}
}

// List handles GET /api/runs - returns recent runs, newest first.
func (h *RunsHandler) List(c *gin.Context) {
	limit := ParseIntParam(c, "limit", dto.DefaultRunListParams().Limit)

	runs, err := h.repo.ListRuns(limit)
	if err != nil {
		h.WriteError(c, dto.InternalError())
		return
	}

	response := dto.RunListResponse{
		Runs:  make([]dto.RunResponse, 0, len(runs)),
		Count: len(runs),
	}
	for _, run := range runs {
		response.Runs = append(response.Runs, toRunResponse(run))
	}

	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/runs/:id - returns a single run.
func (h *RunsHandler) Get(c *gin.Context) {
	run, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toRunResponse(*run))
}

// Allocations handles GET /api/runs/:id/allocations - returns every order's
// decision and charges, plus the per-method totals.
func (h *RunsHandler) Allocations(c *gin.Context) {
	run, ok := h.lookup(c)
	if !ok {
		return
	}

	allocations, err := h.repo.GetAllocations(run.ID)
	if err != nil {
		h.WriteError(c, dto.InternalError())
		return
	}
	used, err := h.repo.GetUsedAmounts(run.ID)
	if err != nil {
		h.WriteError(c, dto.InternalError())
		return
	}

	response := dto.RunAllocationsResponse{
		RunID:       run.ID,
		Allocations: make([]dto.OutcomeResponse, 0, len(allocations)),
		Used:        make([]dto.UsedAmountResponse, 0, len(used)),
	}
	for _, a := range allocations {
		charges := make([]dto.ChargeResponse, 0, len(a.Charges))
		for _, ch := range a.Charges {
			charges = append(charges, dto.ChargeResponse{MethodID: ch.MethodID, Amount: dto.Money(ch.Amount)})
		}
		response.Allocations = append(response.Allocations, dto.OutcomeResponse{
			OrderID:  a.OrderID,
			Value:    dto.Money(a.OrderValue),
			Choice:   a.Choice,
			Rule:     a.Rule,
			Discount: a.Discount,
			Charges:  charges,
			Unpaid:   dto.Money(a.Unpaid),
		})
	}
	for _, u := range used {
		response.Used = append(response.Used, dto.UsedAmountResponse{MethodID: u.MethodID, Amount: dto.Money(u.Amount)})
	}

	c.JSON(http.StatusOK, response)
}

func (h *RunsHandler) lookup(c *gin.Context) (*storage.Run, bool) {
	id := c.Param("id")
	if id == "" {
		h.WriteError(c, dto.BadRequestError("run ID is required"))
		return nil, false
	}

	run, err := h.repo.GetRun(id)
	if err != nil {
		h.WriteError(c, dto.InternalError())
		return nil, false
	}
	if run == nil {
		h.WriteError(c, dto.NotFoundError("run"))
		return nil, false
	}
	return run, true
}

// toRunResponse converts a storage Run to an API response.
func toRunResponse(run storage.Run) dto.RunResponse {
	return dto.RunResponse{
		ID:            run.ID,
		Source:        run.Source,
		StartedAt:     dto.Timestamp(&run.StartedAt),
		CompletedAt:   dto.Timestamp(run.CompletedAt),
		OrderCount:    run.OrderCount,
		MethodCount:   run.MethodCount,
		Status:        run.Status,
		ErrorMessage:  run.ErrorMessage,
		Allocated:     run.Allocated,
		Unallocated:   run.Unallocated,
		PartialUnpaid: run.PartialUnpaid,
		TotalCharged:  dto.Money(run.TotalCharge),
		TotalUnpaid:   dto.Money(run.TotalUnpaid),
	}
}
