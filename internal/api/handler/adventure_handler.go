package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adventureapp/adventure-api/internal/core/domain"
	"github.com/adventureapp/adventure-api/internal/core/ports"
)

// AdventureHandler handles HTTP requests for adventure operations.
type AdventureHandler struct {
	service ports.AdventureService
}

func NewAdventureHandler(service ports.AdventureService) *AdventureHandler {
	return &AdventureHandler{service: service}
}

func summaryResponse(s ports.AdventureSummary) adventureSummaryResponse {
	return adventureSummaryResponse{
		ID:               s.ID,
		Title:            s.Title,
		Synopsis:         s.Synopsis,
		Status:           s.Status,
		Perspective:      s.Perspective,
		MaxLevels:        s.MaxLevels,
		MinWordsPerLevel: s.MinWordsPerLevel,
		MaxWordsPerLevel: s.MaxWordsPerLevel,
		NumNodes:         s.NumNodes,
		CloneOf:          s.CloneOf,
		HasCover:         s.HasCover,
		CreatedAt:        s.CreatedAt,
	}
}

// Start handles POST /v1/adventures.
//
// @Summary      Start a new adventure
// @Tags         adventures
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      startAdventureRequest  true  "Adventure premise"
// @Success      201   {object}  adventureSummaryResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/adventures [post]
func (h *AdventureHandler) Start(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req startAdventureRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sum, err := h.service.Start(c.Request().Context(), p, ports.StartAdventureInput{
		Prompt:           req.Prompt,
		Perspective:      req.Perspective,
		Language:         req.Language,
		MaxLevels:        req.MaxLevels,
		MinWordsPerLevel: req.MinWordsPerLevel,
		MaxWordsPerLevel: req.MaxWordsPerLevel,
		IsPublic:         req.IsPublic,
		CoverImage:       req.CoverImage,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, summaryResponse(*sum))
}

// List handles GET /v1/adventures.
//
// @Summary      List the caller's adventures
// @Tags         adventures
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listAdventuresResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/adventures [get]
func (h *AdventureHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	sums, err := h.service.List(c.Request().Context(), p)
	if err != nil {
		return err
	}

	data := make([]adventureSummaryResponse, 0, len(sums))
	for _, s := range sums {
		data = append(data, summaryResponse(s))
	}
	return c.JSON(http.StatusOK, listAdventuresResponse{Data: data})
}

// Get handles GET /v1/adventures/:id.
//
// @Summary      Get an adventure with its full node sequence
// @Tags         adventures
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Adventure ID"
// @Success      200  {object}  adventureDetailResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/adventures/{id} [get]
func (h *AdventureHandler) Get(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	adv, err := h.service.Nodes(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}

	nodes := make([]nodeResponse, 0, len(adv.Nodes))
	for _, n := range adv.Nodes {
		nodes = append(nodes, nodeResponse{
			Text:            n.Text,
			Options:         n.Options,
			Level:           n.Level,
			PrevOptionIndex: n.PrevOptionIndex,
			PrevOptionText:  n.PrevOptionText,
			CreatedAt:       n.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, adventureDetailResponse{
		adventureSummaryResponse: adventureSummaryResponse{
			ID:               adv.ID,
			Title:            adv.Title,
			Synopsis:         adv.Synopsis,
			Status:           string(adv.Status),
			Perspective:      adv.Perspective,
			MaxLevels:        adv.MaxLevels,
			MinWordsPerLevel: adv.MinWordsPerLevel,
			MaxWordsPerLevel: adv.MaxWordsPerLevel,
			NumNodes:         len(adv.Nodes),
			CloneOf:          adv.CloneOf,
			HasCover:         !adv.Image.Empty(),
			CreatedAt:        adv.CreatedAt,
		},
		Nodes: nodes,
	})
}

// Continue handles POST /v1/adventures/:id/continue.
//
// @Summary      Continue an adventure from its last node
// @Tags         adventures
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Adventure ID"
// @Param        body  body      continueAdventureRequest  true  "Chosen option"
// @Success      200   {object}  continueResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/adventures/{id}/continue [put]
func (h *AdventureHandler) Continue(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req continueAdventureRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	outcome := domain.Outcome(req.Outcome)
	if req.Outcome == "" {
		outcome = domain.OutcomeContinue
	}

	res, err := h.service.Continue(c.Request().Context(), p, ports.ContinueAdventureInput{
		AdventureID:    c.Param("id"),
		NodeIndex:      req.NodeIndex,
		SelectedOption: *req.SelectedOption,
		Outcome:        outcome,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, continueResponse{
		AdventureID: res.AdventureID,
		NodeIndex:   res.NodeIndex,
		Status:      res.Status,
	})
}

// Truncate handles POST /v1/adventures/:id/truncate.
//
// @Summary      Rewind an adventure, keeping nodes up to an index
// @Tags         adventures
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Adventure ID"
// @Param        body  body      truncateAdventureRequest  true  "Last node index to keep"
// @Success      200   {object}  adventureSummaryResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/adventures/{id}/truncate [patch]
func (h *AdventureHandler) Truncate(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req truncateAdventureRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	sum, err := h.service.Truncate(c.Request().Context(), p, c.Param("id"), req.NodeIndex)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summaryResponse(*sum))
}

// Clone handles POST /v1/adventures/:id/clone.
//
// @Summary      Clone an adventure into a new one owned by the caller
// @Tags         adventures
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Adventure ID"
// @Success      201  {object}  adventureSummaryResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/adventures/{id}/clone [post]
func (h *AdventureHandler) Clone(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	sum, err := h.service.Clone(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, summaryResponse(*sum))
}

// Delete handles DELETE /v1/adventures/:id.
//
// @Summary      Delete an adventure
// @Tags         adventures
// @Security     BearerAuth
// @Param        id  path  string  true  "Adventure ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/adventures/{id} [delete]
func (h *AdventureHandler) Delete(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Cover handles GET /v1/adventures/:id/cover.
//
// @Summary      Get a presigned URL for the adventure's cover image
// @Tags         adventures
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Adventure ID"
// @Success      200  {object}  coverURLResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/adventures/{id}/cover [get]
func (h *AdventureHandler) Cover(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	url, err := h.service.CoverURL(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, coverURLResponse{URL: url})
}

// RegenerateCover handles PUT /v1/adventures/:id/cover.
//
// @Summary      Generate a replacement cover image and return its presigned URL
// @Tags         adventures
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Adventure ID"
// @Success      200  {object}  coverURLResponse
// @Failure      404  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/adventures/{id}/cover [put]
func (h *AdventureHandler) RegenerateCover(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	url, err := h.service.RegenerateCover(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, coverURLResponse{URL: url})
}
