package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/payopt/internal/adapters/input"
	"github.com/eshaffer321/payopt/internal/api/dto"
	"github.com/eshaffer321/payopt/internal/application/optimizer"
	"github.com/eshaffer321/payopt/internal/domain/allocator"
	"github.com/eshaffer321/payopt/internal/domain/payment"
)

// AllocationsHandler runs allocation batches submitted over HTTP.
type AllocationsHandler struct {
	*Base
	service   *optimizer.Service
	maxOrders int // 0 means unlimited
	logger    *slog.Logger
}

// NewAllocationsHandler creates a new allocations handler.
func NewAllocationsHandler(service *optimizer.Service, maxOrders int, logger *slog.Logger) *AllocationsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AllocationsHandler{
		Base:      NewBase(nil),
		service:   service,
		maxOrders: maxOrders,
		logger:    logger,
	}
}

// Create handles POST /api/allocations.
func (h *AllocationsHandler) Create(c *gin.Context) {
	var req dto.AllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.WriteError(c, dto.BadRequestError("invalid JSON body: "+err.Error()))
		return
	}

	if h.maxOrders > 0 && len(req.Orders) > h.maxOrders {
		msg := fmt.Sprintf("batch has %d orders, limit is %d", len(req.Orders), h.maxOrders)
		h.WriteError(c, dto.ValidationError(msg))
		return
	}

	orders, err := input.ConvertOrders(req.Orders)
	if err != nil {
		h.writeInputError(c, err)
		return
	}
	methods, err := input.ConvertMethods(req.Methods)
	if err != nil {
		h.writeInputError(c, err)
		return
	}

	result, err := h.service.Optimize(c.Request.Context(), optimizer.Batch{
		Orders:  orders,
		Methods: methods,
		Source:  optimizer.SourceAPI,
	})
	if err != nil {
		h.logger.Error("Allocation failed", "error", err)
		h.WriteError(c, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, toAllocationResponse(result))
}

func (h *AllocationsHandler) writeInputError(c *gin.Context, err error) {
	if errors.Is(err, input.ErrInvalidRecord) {
		h.WriteError(c, dto.ValidationError(err.Error()))
		return
	}
	h.WriteError(c, dto.BadRequestError(err.Error()))
}

func toAllocationResponse(result *optimizer.Result) dto.AllocationResponse {
	summary := result.Summary()
	response := dto.AllocationResponse{
		RunID:     result.RunID.String(),
		Used:      toUsedResponses(result.Used),
		Outcomes:  make([]dto.OutcomeResponse, 0, len(result.Outcomes)),
		Remaining: make([]dto.MethodResponse, 0, len(result.Remaining)),
		Summary: dto.SummaryResponse{
			Allocated:     summary.Allocated,
			Unallocated:   summary.Unallocated,
			PartialUnpaid: summary.PartialUnpaid,
		},
	}

	for _, o := range result.Outcomes {
		response.Outcomes = append(response.Outcomes, toOutcomeResponse(o))
	}
	for _, m := range result.Remaining {
		response.Remaining = append(response.Remaining, dto.MethodResponse{
			ID:       m.ID,
			Discount: m.Discount,
			Limit:    dto.Money(m.Limit),
		})
	}
	return response
}

func toUsedResponses(used []allocator.UsedAmount) []dto.UsedAmountResponse {
	out := make([]dto.UsedAmountResponse, 0, len(used))
	for _, u := range used {
		out = append(out, dto.UsedAmountResponse{MethodID: u.MethodID, Amount: dto.Money(u.Amount)})
	}
	return out
}

func toOutcomeResponse(o allocator.Outcome) dto.OutcomeResponse {
	return dto.OutcomeResponse{
		OrderID:  o.Order.ID,
		Value:    dto.Money(o.Order.Value),
		Choice:   string(o.Decision.Choice),
		Rule:     string(o.Decision.Rule),
		Discount: o.Decision.Discount,
		Charges:  toChargeResponses(o.Charges),
		Unpaid:   dto.Money(o.Unpaid),
	}
}

func toChargeResponses(charges []payment.Charge) []dto.ChargeResponse {
	out := make([]dto.ChargeResponse, 0, len(charges))
	for _, c := range charges {
		out = append(out, dto.ChargeResponse{MethodID: c.MethodID, Amount: dto.Money(c.Amount)})
	}
	return out
}
