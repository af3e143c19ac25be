package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/campusfest/festreg/internal/cache"
	"github.com/campusfest/festreg/internal/config"
	"github.com/campusfest/festreg/internal/domain/registration"
	"github.com/campusfest/festreg/internal/observability"
	"github.com/campusfest/festreg/internal/upload"
	"github.com/gin-gonic/gin"
)

// RegistrationsStore is the storage surface the handlers need. Both the
// postgres repo and the in-memory repo satisfy it.
type RegistrationsStore interface {
	Create(ctx context.Context, reg registration.Registration) (registration.Registration, error)
	ListAll(ctx context.Context) ([]registration.Registration, error)
	UpdateAttendance(ctx context.Context, id string, isPresent bool) (registration.Registration, error)
	UpdatePayment(ctx context.Context, id string, method *string) (registration.Registration, error)
	DistinctEvents(ctx context.Context) ([]string, error)
}

type RegistrationHandler struct {
	repo  RegistrationsStore
	store *upload.Store
	cache *cache.Cache
	prom  *observability.Prom
}

func NewRegistrationHandler(repo RegistrationsStore, store *upload.Store, c *cache.Cache, prom *observability.Prom) *RegistrationHandler {
	return &RegistrationHandler{repo: repo, store: store, cache: c, prom: prom}
}

// Register handles POST /api/register. The body is either JSON or a
// multipart form carrying the same fields plus an optional idPhoto file.
func (h *RegistrationHandler) Register(ctx *gin.Context) {
	var req registration.CreateRegistrationRequest
	var photo *multipart.FileHeader

	if isMultipart(ctx) {
		if !h.bindMultipart(ctx, &req, &photo) {
			return
		}
	} else {
		if !BindJSON(ctx, &req) {
			return
		}
	}

	req.Normalize()

	if issues := req.Validate(); len(issues) > 0 {
		RespondBadRequest(ctx, "Registration validation failed", gin.H{"fields": issues})
		return
	}

	var photoPath *string

	if photo != nil {
		path, err := h.store.Save(photo)

		if err != nil {
			h.countUpload(uploadResult(err))

			switch {
			case errors.Is(err, upload.ErrInvalidType):
				RespondBadRequest(ctx, "Only JPEG and PNG images are allowed", nil)
			case errors.Is(err, upload.ErrTooLarge):
				RespondBadRequest(ctx, "ID photo must be 5MB or smaller", nil)
			default:
				RespondInternal(ctx, "Could not store ID photo")
			}
			return
		}

		h.countUpload("stored")
		photoPath = &path
	}

	reg := registration.NewFromCreateRequest(req, photoPath)

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	created, err := h.repo.Create(cctx, reg)

	if err != nil {
		if errors.Is(err, registration.ErrDuplicateEmail) {
			RespondConflict(ctx, "This email is already registered")
			return
		}

		RespondInternal(ctx, "Could not save registration")
		return
	}

	// a new registration may introduce new event names
	h.cache.Delete(cctx, cache.EventsKey)

	ctx.JSON(http.StatusCreated, gin.H{
		"success":        true,
		"message":        "Registration successful",
		"registrationId": created.ID,
	})
}

func isMultipart(ctx *gin.Context) bool {
	ct := strings.ToLower(ctx.GetHeader("Content-Type"))
	return strings.HasPrefix(ct, "multipart/form-data")
}

func (h *RegistrationHandler) bindMultipart(ctx *gin.Context, req *registration.CreateRegistrationRequest, photo **multipart.FileHeader) bool {
	if err := ctx.ShouldBind(req); err != nil {
		RespondBadRequest(ctx, "Invalid form body", gin.H{"reason": err.Error()})
		return false
	}

	// selectedEvents may arrive repeated, as an encoded JSON array, or as
	// one bare value. Repeated fields win; a single value goes through the
	// union normalization.
	vals := ctx.PostFormArray("selectedEvents")

	switch {
	case len(vals) > 1:
		req.SelectedEvents = nil
		for _, v := range vals {
			req.SelectedEvents = append(req.SelectedEvents, registration.ParseEventList(v)...)
		}
	case len(vals) == 1:
		req.SelectedEvents = registration.ParseEventList(vals[0])
	}

	fh, err := ctx.FormFile("idPhoto")

	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return true
		}

		RespondBadRequest(ctx, "Invalid idPhoto upload", gin.H{"reason": err.Error()})
		return false
	}

	*photo = fh
	return true
}

func (h *RegistrationHandler) countUpload(result string) {
	if h.prom != nil {
		h.prom.UploadsTotal.WithLabelValues(result).Inc()
	}
}

func uploadResult(err error) string {
	switch {
	case errors.Is(err, upload.ErrInvalidType):
		return "invalid_type"
	case errors.Is(err, upload.ErrTooLarge):
		return "too_large"
	default:
		return "error"
	}
}
