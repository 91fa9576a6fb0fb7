package controller

import (
	"notesearch-be/internal/dto"
	"notesearch-be/internal/pkg/serverutils"
	"notesearch-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Patch(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Share(ctx *fiber.Ctx) error
	RemoveCollaborator(ctx *fiber.Ctx) error
	RegenerateEmbedding(ctx *fiber.Ctx) error
	RegenerateAllEmbeddings(ctx *fiber.Ctx) error
	EmbeddingStatus(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService service.INoteService
	jwtAuth     fiber.Handler
}

func NewNoteController(noteService service.INoteService, jwtAuth fiber.Handler) INoteController {
	return &noteController{
		noteService: noteService,
		jwtAuth:     jwtAuth,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/note/v1")
	h.Use(c.jwtAuth)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Post("embeddings/regenerate-all", c.RegenerateAllEmbeddings)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Patch(":id", c.Patch)
	h.Delete(":id", c.Delete)
	h.Post(":id/share", c.Share)
	h.Delete(":id/share", c.RemoveCollaborator)
	h.Post(":id/embeddings/regenerate", c.RegenerateEmbedding)
	h.Get(":id/embeddings/status", c.EmbeddingStatus)
}

func currentUserId(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}

func noteIdParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid note id")
	}
	return id, nil
}

func (c *noteController) Create(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.CreateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create note", res))
}

func (c *noteController) List(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	res, err := c.noteService.List(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list notes", res))
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	id, err := noteIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.noteService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show note", res))
}

func (c *noteController) Update(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	id, err := noteIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.Update(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update note", res))
}

func (c *noteController) Patch(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	id, err := noteIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.PatchNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	res, err := c.noteService.Patch(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success patch note", res))
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	id, err := noteIdParam(ctx)
	if err != nil {
		return err
	}

	if err := c.noteService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete note", struct{}{}))
}

func (c *noteController) Share(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	id, err := noteIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.ShareNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.noteService.Share(ctx.Context(), userId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success share note", struct{}{}))
}

func (c *noteController) RemoveCollaborator(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	id, err := noteIdParam(ctx)
	if err != nil {
		return err
	}

	email := ctx.Query("email")
	if email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email query parameter is required")
	}

	if err := c.noteService.RemoveCollaborator(ctx.Context(), userId, id, email); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success remove collaborator", struct{}{}))
}

func (c *noteController) RegenerateEmbedding(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	id, err := noteIdParam(ctx)
	if err != nil {
		return err
	}

	if err := c.noteService.RegenerateEmbedding(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success regenerate embedding", struct{}{}))
}

func (c *noteController) RegenerateAllEmbeddings(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	res, err := c.noteService.RegenerateAllEmbeddings(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success regenerate embeddings", res))
}

func (c *noteController) EmbeddingStatus(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	id, err := noteIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.noteService.EmbeddingStatus(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success embedding status", res))
}
