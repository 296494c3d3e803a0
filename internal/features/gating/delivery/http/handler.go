package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"community-forum-backend/internal/common/errors"
	"community-forum-backend/internal/common/middleware"
	"community-forum-backend/internal/features/gating/models"
	"community-forum-backend/internal/features/gating/models/dto"
	"community-forum-backend/internal/features/gating/repository"
	"community-forum-backend/internal/features/gating/service"
)

type GatingHandler struct {
	locks  service.LockService
	access service.AccessService
}

func NewGatingHandler(locks service.LockService, access service.AccessService) *GatingHandler {
	return &GatingHandler{
		locks:  locks,
		access: access,
	}
}

func (h *GatingHandler) RegisterRoutes(router *gin.RouterGroup) {
	locks := router.Group("/locks")
	{
		locks.POST("", h.createLock)
		locks.GET("", h.listLocks)
		locks.GET("/:id", h.getLock)
		locks.PUT("/:id", h.updateLock)
		locks.DELETE("/:id", h.deleteLock)
		locks.POST("/:id/verify", h.verifyLock)
		locks.GET("/:id/verification-status", h.verificationStatus)
	}

	router.POST("/access/check", h.checkAccess)
	router.GET("/gating/categories", h.listCategories)
}

// @Summary Create a lock
// @Description Creates a gating lock from categories of requirements
// @Tags locks
// @Accept json
// @Produce json
// @Security HostAuth
// @Param input body dto.LockCreateRequest true "Lock definition"
// @Success 201 {object} models.Lock
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /locks [post]
func (h *GatingHandler) createLock(c *gin.Context) {
	var input dto.LockCreateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(errors.NewValidationError("body", err.Error()))
		return
	}

	lock, err := h.locks.Create(c.Request.Context(), actorFrom(c), &input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, lock)
}

// @Summary List locks
// @Description Lists locks visible to the member, with optional filters
// @Tags locks
// @Produce json
// @Security HostAuth
// @Param community_id query string false "Community to browse; defaults to the caller's"
// @Param creator_id query string false "Only locks created by this member"
// @Param mine query bool false "Only the caller's own locks"
// @Param templates query bool false "Only template locks"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.Lock
// @Failure 401 {object} middleware.ErrorResponse
// @Router /locks [get]
func (h *GatingHandler) listLocks(c *gin.Context) {
	filter := repository.LockFilter{
		CommunityID:   c.Query("community_id"),
		CreatorID:     c.Query("creator_id"),
		TemplatesOnly: c.Query("templates") == "true",
		Limit:         intQuery(c, "limit", 50),
		Offset:        intQuery(c, "offset", 0),
	}
	if c.Query("mine") == "true" {
		filter.CreatorID = actorFrom(c).UserID
	}

	locks, err := h.locks.List(c.Request.Context(), actorFrom(c), filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, locks)
}

// @Summary Get a lock
// @Tags locks
// @Produce json
// @Security HostAuth
// @Param id path string true "Lock ID"
// @Success 200 {object} models.Lock
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /locks/{id} [get]
func (h *GatingHandler) getLock(c *gin.Context) {
	lock, err := h.locks.GetByID(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, lock)
}

// @Summary Update a lock
// @Description Replaces the lock definition; the change applies to all future verifications
// @Tags locks
// @Accept json
// @Produce json
// @Security HostAuth
// @Param id path string true "Lock ID"
// @Param input body dto.LockUpdateRequest true "New lock definition"
// @Success 200 {object} models.Lock
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /locks/{id} [put]
func (h *GatingHandler) updateLock(c *gin.Context) {
	var input dto.LockUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(errors.NewValidationError("body", err.Error()))
		return
	}

	lock, err := h.locks.Update(c.Request.Context(), actorFrom(c), c.Param("id"), &input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, lock)
}

// @Summary Delete a lock
// @Description Deletes a lock unless a board or post still references it
// @Tags locks
// @Security HostAuth
// @Param id path string true "Lock ID"
// @Success 204 "No Content"
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /locks/{id} [delete]
func (h *GatingHandler) deleteLock(c *gin.Context) {
	if err := h.locks.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Verify against a lock
// @Description Runs a live verification of the member's addresses against the lock and records the result
// @Tags verification
// @Accept json
// @Produce json
// @Security HostAuth
// @Param id path string true "Lock ID"
// @Param input body dto.VerifyRequest true "Addresses to verify with"
// @Success 200 {object} models.LockVerificationOutcome
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /locks/{id}/verify [post]
func (h *GatingHandler) verifyLock(c *gin.Context) {
	var input dto.VerifyRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(errors.NewValidationError("body", err.Error()))
		return
	}

	outcome, err := h.access.EvaluateLock(c.Request.Context(), identityFrom(c, input.IdentityPayload), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// @Summary Verification status
// @Description Returns the member's unexpired pre-verification for the lock, if any
// @Tags verification
// @Produce json
// @Security HostAuth
// @Param id path string true "Lock ID"
// @Success 200 {object} models.PreVerification
// @Failure 404 {object} middleware.ErrorResponse
// @Router /locks/{id}/verification-status [get]
func (h *GatingHandler) verificationStatus(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	pv, found, err := h.access.VerificationStatus(c.Request.Context(), principal.UserID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	if !found {
		c.JSON(http.StatusOK, gin.H{"status": "none"})
		return
	}

	c.JSON(http.StatusOK, pv)
}

// @Summary Check access
// @Description Decides whether the member may act on a gated board or post, using cached verifications where possible
// @Tags verification
// @Accept json
// @Produce json
// @Security HostAuth
// @Param input body dto.AccessCheckRequest true "Resource and addresses"
// @Success 200 {object} models.Decision
// @Failure 400 {object} middleware.ErrorResponse
// @Router /access/check [post]
func (h *GatingHandler) checkAccess(c *gin.Context) {
	var input dto.AccessCheckRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(errors.NewValidationError("body", err.Error()))
		return
	}

	decision, err := h.access.CanAct(c.Request.Context(), identityFrom(c, input.IdentityPayload), models.ResourceRef{
		BoardID: input.BoardID,
		PostID:  input.PostID,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, decision)
}

// @Summary List category types
// @Description Lists the registered verification categories and the requirement kinds each supports
// @Tags gating
// @Produce json
// @Security HostAuth
// @Success 200 {array} registry.Metadata
// @Router /gating/categories [get]
func (h *GatingHandler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.locks.Categories())
}

func actorFrom(c *gin.Context) service.Actor {
	principal, _ := middleware.GetPrincipal(c)
	return service.Actor{
		UserID:      principal.UserID,
		CommunityID: principal.CommunityID,
		IsAdmin:     principal.IsAdmin(),
	}
}

func identityFrom(c *gin.Context, payload dto.IdentityPayload) models.Identity {
	principal, _ := middleware.GetPrincipal(c)
	return models.Identity{
		UserID:      principal.UserID,
		CommunityID: principal.CommunityID,
		EvmAddress:  payload.EvmAddress,
		UpAddress:   payload.UpAddress,
		TonAddress:  payload.TonAddress,
	}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
