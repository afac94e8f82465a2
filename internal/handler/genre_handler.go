package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gamereviews/internal/auth"
	"gamereviews/internal/model"
	"gamereviews/internal/policy"
	"gamereviews/internal/service"
)

// GenreHandler handles genre endpoints.
type GenreHandler struct {
	genreService  service.GenreService
	reviewService service.ReviewService
}

// NewGenreHandler creates a new genre handler.
func NewGenreHandler(genreService service.GenreService, reviewService service.ReviewService) *GenreHandler {
	return &GenreHandler{genreService: genreService, reviewService: reviewService}
}

// GenreRequest is the body of genre create and update.
type GenreRequest struct {
	ID   int    `json:"id"`
	Name string `json:"name" validate:"max=100"`
}

func (r GenreRequest) model() *model.Genre {
	return &model.Genre{ID: r.ID, Name: r.Name}
}

// List godoc
// @Summary List genres
// @Tags genres
// @Produce json
// @Success 200 {array} model.Genre
// @Failure 500 {object} errors.ErrorResponse
// @Router /genres [get]
func (h *GenreHandler) List(c echo.Context) error {
	genres, err := h.genreService.List(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, genres)
}

// Get godoc
// @Summary Get a genre
// @Tags genres
// @Produce json
// @Param id path int true "Genre ID"
// @Success 200 {object} model.Genre
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /genres/{id} [get]
func (h *GenreHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	genre, err := h.genreService.Get(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, genre)
}

// ListGames godoc
// @Summary List the games of a genre
// @Tags genres
// @Produce json
// @Param id path int true "Genre ID"
// @Success 200 {array} model.Game
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /genres/{id}/games [get]
func (h *GenreHandler) ListGames(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	games, err := h.genreService.ListGames(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, games)
}

// GetReview godoc
// @Summary Get a review through its genre and game
// @Tags genres
// @Produce json
// @Param id path int true "Genre ID"
// @Param gameId path int true "Game ID"
// @Param reviewId path int true "Review ID"
// @Success 200 {object} model.ReviewView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /genres/{id}/games/{gameId}/reviews/{reviewId} [get]
func (h *GenreHandler) GetReview(c echo.Context) error {
	genreID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	gameID, err := pathID(c, "gameId")
	if err != nil {
		return err
	}
	reviewID, err := pathID(c, "reviewId")
	if err != nil {
		return err
	}

	review, err := h.reviewService.GetInGenre(c.Request().Context(), auth.PrincipalFrom(c), genreID, gameID, reviewID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, review)
}

// Create godoc
// @Summary Create a genre
// @Tags genres
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GenreRequest true "Genre"
// @Success 201 {object} model.Genre
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /genres [post]
func (h *GenreHandler) Create(c echo.Context) error {
	if err := policy.CanMutateCatalog(auth.PrincipalFrom(c)); err != nil {
		return fail(err)
	}
	var req GenreRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	genre, err := h.genreService.Create(c.Request().Context(), req.model())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, genre)
}

// Update godoc
// @Summary Rename a genre
// @Tags genres
// @Accept json
// @Security BearerAuth
// @Param request body GenreRequest true "Genre"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /genres [put]
func (h *GenreHandler) Update(c echo.Context) error {
	if err := policy.CanMutateCatalog(auth.PrincipalFrom(c)); err != nil {
		return fail(err)
	}
	var req GenreRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	if err := h.genreService.Update(c.Request().Context(), req.model()); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete godoc
// @Summary Delete a genre
// @Tags genres
// @Security BearerAuth
// @Param id path int true "Genre ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /genres/{id} [delete]
func (h *GenreHandler) Delete(c echo.Context) error {
	if err := policy.CanMutateCatalog(auth.PrincipalFrom(c)); err != nil {
		return fail(err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.genreService.Delete(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}
