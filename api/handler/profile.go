package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/startsmart/backend/api/transport"
	"github.com/startsmart/backend/domain"
	"github.com/startsmart/backend/pkg/httpcontext"
	profileUC "github.com/startsmart/backend/usecase/profile"
)

// TaskSeeder generates auto-generated compliance tasks from a profile.
type TaskSeeder interface {
	SeedTasks(ctx context.Context, profile *domain.BusinessCompliance) (int, error)
}

type ProfileHandler struct {
	baseHandler
	uc     *profileUC.UseCase
	seeder TaskSeeder
}

func NewProfileHandler(uc *profileUC.UseCase, seeder TaskSeeder, adapter *httpcontext.Adapter, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		seeder:      seeder,
	}
}

// @Summary Get compliance profile
// @Tags profile
// @Router /api/v1/compliance-profile [get]
func (h *ProfileHandler) GetProfile(ctx *fasthttp.RequestCtx) {
	ownerID := h.ownerID(ctx)
	if ownerID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	profile, err := h.uc.GetProfile(stdCtx, ownerID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, profile)
}

// @Summary Create or update compliance profile
// @Tags profile
// @Router /api/v1/compliance-profile [put]
func (h *ProfileHandler) UpsertProfile(ctx *fasthttp.RequestCtx) {
	ownerID := h.ownerID(ctx)
	if ownerID == "" {
		return
	}

	var req transport.ProfileUpsertRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.badRequest(ctx, "invalid payload")
		return
	}

	profile := &domain.BusinessCompliance{
		UserID:           ownerID,
		StateOfFormation: req.StateOfFormation,
		EntityType:       req.EntityType,
		FiscalYearEnd:    req.FiscalYearEnd,
		HasEmployees:     req.HasEmployees,
		HasRetailSales:   req.HasRetailSales,
		Industry:         req.Industry,
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpsertProfile(stdCtx, profile)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Generate compliance tasks from the profile
// @Tags profile
// @Router /api/v1/compliance-profile/seed [post]
func (h *ProfileHandler) SeedTasks(ctx *fasthttp.RequestCtx) {
	ownerID := h.ownerID(ctx)
	if ownerID == "" {
		return
	}
	if h.seeder == nil {
		h.respondJSON(ctx, http.StatusNotImplemented, transport.NewError(string(domain.ErrCodeInternal), "task seeding is not configured", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	profile, err := h.uc.GetProfile(stdCtx, ownerID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	created, err := h.seeder.SeedTasks(stdCtx, profile)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, map[string]interface{}{"tasks_created": created})
}
