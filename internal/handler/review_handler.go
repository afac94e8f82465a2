package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gamereviews/internal/auth"
	"gamereviews/internal/model"
	"gamereviews/internal/policy"
	"gamereviews/internal/service"
)

// ReviewHandler handles review endpoints.
type ReviewHandler struct {
	reviewService service.ReviewService
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// ReviewRequest is the body of review create and update. UserID is only
// honoured for Admin callers.
type ReviewRequest struct {
	ID      int    `json:"id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment" validate:"max=4000"`
	GameID  int    `json:"gameId"`
	UserID  int    `json:"userId"`
}

func (r ReviewRequest) model() *model.Review {
	return &model.Review{
		ID:      r.ID,
		Rating:  r.Rating,
		Comment: r.Comment,
		GameID:  r.GameID,
		UserID:  r.UserID,
	}
}

// List godoc
// @Summary List reviews
// @Tags reviews
// @Produce json
// @Param gameId query int false "Only reviews of this game"
// @Success 200 {array} model.ReviewView
// @Failure 400 {object} errors.ErrorResponse
// @Router /reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	gameID, err := queryID(c, "gameId")
	if err != nil {
		return err
	}
	reviews, err := h.reviewService.List(c.Request().Context(), auth.PrincipalFrom(c), gameID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, reviews)
}

// Get godoc
// @Summary Get a review
// @Tags reviews
// @Produce json
// @Param id path int true "Review ID"
// @Success 200 {object} model.ReviewView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reviews/{id} [get]
func (h *ReviewHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	review, err := h.reviewService.Get(c.Request().Context(), auth.PrincipalFrom(c), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, review)
}

// Create godoc
// @Summary Post a review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ReviewRequest true "Review"
// @Success 201 {object} model.ReviewView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	p := auth.PrincipalFrom(c)
	if err := policy.CanWriteReviews(p, policy.ActionReviewCreate); err != nil {
		return fail(err)
	}
	var req ReviewRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	review, err := h.reviewService.Create(c.Request().Context(), p, req.model())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, review)
}

// Update godoc
// @Summary Edit a review
// @Tags reviews
// @Accept json
// @Security BearerAuth
// @Param request body ReviewRequest true "Review"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /reviews [put]
func (h *ReviewHandler) Update(c echo.Context) error {
	p := auth.PrincipalFrom(c)
	if err := policy.CanWriteReviews(p, policy.ActionReviewUpdate); err != nil {
		return fail(err)
	}
	var req ReviewRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	if err := h.reviewService.Update(c.Request().Context(), p, req.model()); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete godoc
// @Summary Delete a review
// @Tags reviews
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	p := auth.PrincipalFrom(c)
	if err := policy.CanWriteReviews(p, policy.ActionReviewDelete); err != nil {
		return fail(err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.reviewService.Delete(c.Request().Context(), p, id); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}
