package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/campusfest/festreg/internal/cache"
	"github.com/campusfest/festreg/internal/config"
	"github.com/campusfest/festreg/internal/domain/registration"
	"github.com/gin-gonic/gin"
)

const eventsCacheTTL = 30 * time.Second

type AdminHandler struct {
	repo  RegistrationsStore
	cache *cache.Cache
}

func NewAdminHandler(repo RegistrationsStore, c *cache.Cache) *AdminHandler {
	return &AdminHandler{repo: repo, cache: c}
}

// ListRegistrations returns every registration, newest first.
func (h *AdminHandler) ListRegistrations(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	regs, err := h.repo.ListAll(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list registrations")
		return
	}

	ctx.JSON(http.StatusOK, regs)
}

type attendanceRequest struct {
	// pointer so an explicit false still binds
	IsPresent *bool `json:"isPresent" binding:"required"`
}

func (h *AdminHandler) SetAttendance(ctx *gin.Context) {
	id := ctx.Param("id")

	var req attendanceRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	reg, err := h.repo.UpdateAttendance(cctx, id, *req.IsPresent)

	if err != nil {
		if errors.Is(err, registration.ErrNotFound) {
			RespondNotFound(ctx, "Registration not found")
			return
		}

		RespondInternal(ctx, "Could not update attendance")
		return
	}

	ctx.JSON(http.StatusOK, reg)
}

type paymentRequest struct {
	// null clears the method back to unset
	PaymentMethod *string `json:"paymentMethod"`
}

func (h *AdminHandler) SetPayment(ctx *gin.Context) {
	id := ctx.Param("id")

	var req paymentRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// reject anything outside the enum before touching storage
	if req.PaymentMethod != nil && !registration.PaymentMethodValid(*req.PaymentMethod) {
		RespondBadRequest(ctx, "Invalid payment method", gin.H{
			"allowed": []string{registration.PaymentCash, registration.PaymentOnline, "null"},
		})
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	reg, err := h.repo.UpdatePayment(cctx, id, req.PaymentMethod)

	if err != nil {
		if errors.Is(err, registration.ErrNotFound) {
			RespondNotFound(ctx, "Registration not found")
			return
		}

		RespondInternal(ctx, "Could not update payment")
		return
	}

	ctx.JSON(http.StatusOK, reg)
}

// ListEvents returns the deduplicated event names across all registrations,
// served from the Redis cache when it is warm.
func (h *AdminHandler) ListEvents(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	if events, ok := h.cache.GetStrings(cctx, cache.EventsKey); ok {
		ctx.JSON(http.StatusOK, events)
		return
	}

	events, err := h.repo.DistinctEvents(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list events")
		return
	}

	h.cache.SetStrings(cctx, cache.EventsKey, events, eventsCacheTTL)

	ctx.JSON(http.StatusOK, events)
}
