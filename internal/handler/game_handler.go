package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gamereviews/internal/auth"
	"gamereviews/internal/model"
	"gamereviews/internal/policy"
	"gamereviews/internal/service"
)

// GameHandler handles game endpoints.
type GameHandler struct {
	gameService service.GameService
}

// NewGameHandler creates a new game handler.
func NewGameHandler(gameService service.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

// GameRequest is the body of game create and update.
type GameRequest struct {
	ID          int    `json:"id"`
	Title       string `json:"title" validate:"max=255"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl" validate:"max=1024"`
	GenreID     int    `json:"genreId"`
}

func (r GameRequest) model() *model.Game {
	return &model.Game{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		GenreID:     r.GenreID,
	}
}

// List godoc
// @Summary List games
// @Tags games
// @Produce json
// @Param genreId query int false "Only games of this genre"
// @Success 200 {array} model.Game
// @Failure 400 {object} errors.ErrorResponse
// @Router /games [get]
func (h *GameHandler) List(c echo.Context) error {
	genreID, err := queryID(c, "genreId")
	if err != nil {
		return err
	}
	games, err := h.gameService.List(c.Request().Context(), genreID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, games)
}

// Get godoc
// @Summary Get a game
// @Tags games
// @Produce json
// @Param id path int true "Game ID"
// @Success 200 {object} model.Game
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /games/{id} [get]
func (h *GameHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	game, err := h.gameService.Get(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, game)
}

// Rating godoc
// @Summary Get the rating summary of a game
// @Tags games
// @Produce json
// @Param id path int true "Game ID"
// @Success 200 {object} service.RatingSummary
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /games/{id}/rating [get]
func (h *GameHandler) Rating(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	summary, err := h.gameService.Rating(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, summary)
}

// Create godoc
// @Summary Create a game
// @Tags games
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GameRequest true "Game"
// @Success 201 {object} model.Game
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /games [post]
func (h *GameHandler) Create(c echo.Context) error {
	if err := policy.CanMutateCatalog(auth.PrincipalFrom(c)); err != nil {
		return fail(err)
	}
	var req GameRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	game, err := h.gameService.Create(c.Request().Context(), req.model())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, game)
}

// Update godoc
// @Summary Replace a game
// @Tags games
// @Accept json
// @Security BearerAuth
// @Param request body GameRequest true "Game"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /games [put]
func (h *GameHandler) Update(c echo.Context) error {
	if err := policy.CanMutateCatalog(auth.PrincipalFrom(c)); err != nil {
		return fail(err)
	}
	var req GameRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	if err := h.gameService.Update(c.Request().Context(), req.model()); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete godoc
// @Summary Delete a game and its reviews
// @Tags games
// @Security BearerAuth
// @Param id path int true "Game ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /games/{id} [delete]
func (h *GameHandler) Delete(c echo.Context) error {
	if err := policy.CanMutateCatalog(auth.PrincipalFrom(c)); err != nil {
		return fail(err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.gameService.Delete(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}
