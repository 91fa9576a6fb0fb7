package controller

import (
	"notesearch-be/internal/pkg/serverutils"
	"notesearch-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISearchController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
}

type searchController struct {
	searchService service.ISearchService
	jwtAuth       fiber.Handler
}

func NewSearchController(searchService service.ISearchService, jwtAuth fiber.Handler) ISearchController {
	return &searchController{
		searchService: searchService,
		jwtAuth:       jwtAuth,
	}
}

func (c *searchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/note/v1")
	h.Use(c.jwtAuth)
	h.Get("search", c.Search)
}

func (c *searchController) Search(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	query := ctx.Query("q")
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "q query parameter is required")
	}

	mode := ctx.Query("mode", service.SearchModeHybrid)
	if mode != service.SearchModeHybrid && mode != service.SearchModeKeyword {
		return fiber.NewError(fiber.StatusBadRequest, "mode must be hybrid or keyword")
	}

	res, err := c.searchService.Search(ctx.Context(), userId, query, mode)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search notes", res))
}
