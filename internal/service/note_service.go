package service

import (
	"context"
	"encoding/json"
	"time"

	"notesearch-be/internal/dto"
	"notesearch-be/internal/entity"
	"notesearch-be/internal/pkg/apperror"
	"notesearch-be/internal/pkg/logger"
	"notesearch-be/internal/pkg/mailer"
	"notesearch-be/internal/repository/specification"
	"notesearch-be/internal/repository/unitofwork"
	"notesearch-be/pkg/events"
	pktNats "notesearch-be/pkg/nats"

	"github.com/google/uuid"
)

type INoteService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.CreateNoteResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowNoteResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.ShowNoteResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.UpdateNoteResponse, error)
	Patch(ctx context.Context, userId uuid.UUID, req *dto.PatchNoteRequest) (*dto.UpdateNoteResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	Share(ctx context.Context, userId uuid.UUID, req *dto.ShareNoteRequest) error
	RemoveCollaborator(ctx context.Context, userId uuid.UUID, noteId uuid.UUID, email string) error

	// Embedding maintenance (diagnostic path: real errors surface)
	RegenerateEmbedding(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) error
	RegenerateAllEmbeddings(ctx context.Context, userId uuid.UUID) (*dto.RegenerateAllResponse, error)
	EmbeddingStatus(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) (*dto.EmbeddingStatusResponse, error)
}

type noteService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	embeddingService IEmbeddingService
	emailService     mailer.IEmailService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	embeddingService IEmbeddingService,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) INoteService {
	return &noteService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		embeddingService: embeddingService,
		emailService:     emailService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

func (c *noteService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.CreateNoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	note := entity.Note{
		Id:        uuid.New(),
		Title:     req.Title,
		Content:   req.Content,
		Tags:      req.Tags,
		UserId:    userId,
		CreatedAt: time.Now(),
	}

	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return nil, err
	}

	c.publishEmbedMessage(ctx, note.Id)
	c.publishEvent(ctx, "NOTE_CREATED", note.Id, userId, note.Title)

	return &dto.CreateNoteResponse{Id: note.Id}, nil
}

func (c *noteService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowNoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.AccessibleBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperror.NotFound("note")
	}

	res := toShowNoteResponse(note)
	if note.UserId == userId {
		sharedWith, err := uow.NoteRepository().FindSharedUserIds(ctx, note.Id)
		if err != nil {
			return nil, err
		}
		res.SharedWith = sharedWith
	}
	return res, nil
}

func (c *noteService) List(ctx context.Context, userId uuid.UUID) ([]*dto.ShowNoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.AccessibleBy{UserID: userId},
		specification.OrderBy{Field: "notes.updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ShowNoteResponse, len(notes))
	for i, note := range notes {
		res[i] = toShowNoteResponse(note)
	}
	return res, nil
}

func (c *noteService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.UpdateNoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperror.NotFound("note")
	}

	now := time.Now()
	note.Title = req.Title
	note.Content = req.Content
	note.Tags = req.Tags
	note.UpdatedAt = &now

	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}

	c.publishEmbedMessage(ctx, note.Id)
	c.publishEvent(ctx, "NOTE_UPDATED", note.Id, userId, note.Title)

	return &dto.UpdateNoteResponse{Id: note.Id}, nil
}

func (c *noteService) Patch(ctx context.Context, userId uuid.UUID, req *dto.PatchNoteRequest) (*dto.UpdateNoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperror.NotFound("note")
	}

	contentChanged := false
	if req.Title != nil && *req.Title != note.Title {
		note.Title = *req.Title
		contentChanged = true
	}
	if req.Content != nil && *req.Content != note.Content {
		note.Content = *req.Content
		contentChanged = true
	}
	if req.Tags != nil {
		note.Tags = *req.Tags
	}

	now := time.Now()
	note.UpdatedAt = &now

	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}

	// Tag-only changes don't alter the embedded text; the fingerprint check
	// would skip anyway, this just saves the round trip.
	if contentChanged {
		c.publishEmbedMessage(ctx, note.Id)
	}
	c.publishEvent(ctx, "NOTE_UPDATED", note.Id, userId, note.Title)

	return &dto.UpdateNoteResponse{Id: note.Id}, nil
}

func (c *noteService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if note == nil {
		return apperror.NotFound("note")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	// Embedding first: a crash between the two deletes leaves a note without
	// an embedding, never a dangling vector.
	if err := uow.NoteEmbeddingRepository().DeleteByNoteId(ctx, id); err != nil {
		return err
	}

	if err := uow.NoteRepository().Delete(ctx, id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	c.publishEvent(ctx, "NOTE_DELETED", id, userId, note.Title)
	return nil
}

func (c *noteService) Share(ctx context.Context, userId uuid.UUID, req *dto.ShareNoteRequest) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	// Only the owner can share
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if note == nil {
		return apperror.NotFound("note")
	}

	owner, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}

	collaborators, err := uow.UserRepository().FindAll(ctx, specification.ByEmails{Emails: req.Emails})
	if err != nil {
		return err
	}
	if len(collaborators) != len(req.Emails) {
		return apperror.NotFound("one or more collaborators")
	}

	collaboratorIds := make([]uuid.UUID, 0, len(collaborators))
	for _, u := range collaborators {
		if u.Id == userId {
			continue // sharing with yourself is a no-op
		}
		collaboratorIds = append(collaboratorIds, u.Id)
	}

	if err := uow.NoteRepository().AddShares(ctx, req.Id, collaboratorIds); err != nil {
		return err
	}

	// Notification email is auxiliary; don't block or fail the share on it
	go func() {
		for _, u := range collaborators {
			if u.Id == userId {
				continue
			}
			if err := c.emailService.SendShareNotification(u.Email, owner.FullName, note.Title); err != nil {
				c.logger.Warn("note", "share notification email failed", map[string]interface{}{
					"note_id": note.Id.String(),
					"email":   u.Email,
					"error":   err.Error(),
				})
			}
		}
	}()

	c.publishEvent(ctx, "NOTE_SHARED", note.Id, userId, note.Title)
	return nil
}

func (c *noteService) RemoveCollaborator(ctx context.Context, userId uuid.UUID, noteId uuid.UUID, email string) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: noteId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if note == nil {
		return apperror.NotFound("note")
	}

	collaborator, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return err
	}
	if collaborator == nil {
		return apperror.NotFound("collaborator")
	}

	return uow.NoteRepository().RemoveShare(ctx, noteId, collaborator.Id)
}

func (c *noteService) RegenerateEmbedding(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: noteId},
		specification.AccessibleBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if note == nil {
		return apperror.NotFound("note")
	}

	return c.embeddingService.UpsertStrict(ctx, note.Id, note.Title, note.Content)
}

func (c *noteService) RegenerateAllEmbeddings(ctx context.Context, userId uuid.UUID) (*dto.RegenerateAllResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	// Regenerate only owned notes; shared notes belong to their owner's quota
	notes, err := uow.NoteRepository().FindAll(ctx, specification.OwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	res := &dto.RegenerateAllResponse{TotalNotes: len(notes)}
	for _, note := range notes {
		if err := c.embeddingService.UpsertStrict(ctx, note.Id, note.Title, note.Content); err != nil {
			res.FailureCount++
			c.logger.Warn("note", "embedding regeneration failed", map[string]interface{}{
				"note_id": note.Id.String(),
				"error":   err.Error(),
			})
			continue
		}
		res.SuccessCount++
	}
	return res, nil
}

func (c *noteService) EmbeddingStatus(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) (*dto.EmbeddingStatusResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: noteId},
		specification.AccessibleBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperror.NotFound("note")
	}

	exists, err := c.embeddingService.Exists(ctx, noteId)
	if err != nil {
		return nil, err
	}
	total, err := c.embeddingService.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.EmbeddingStatusResponse{
		NoteId:       noteId,
		HasEmbedding: exists,
		TotalCached:  total,
	}, nil
}

// publishEmbedMessage queues the note for (re-)embedding. Failure must not
// fail the note write; the consumer's fingerprint check makes retries cheap.
func (c *noteService) publishEmbedMessage(ctx context.Context, noteId uuid.UUID) {
	payload := dto.PublishEmbedNoteMessage{NoteId: noteId}
	payloadJson, _ := json.Marshal(payload)
	if err := c.publisherService.Publish(ctx, payloadJson); err != nil {
		c.logger.Error("note", "failed to queue embed message", map[string]interface{}{
			"note_id": noteId.String(),
			"error":   err.Error(),
		})
	}
}

func (c *noteService) publishEvent(ctx context.Context, eventType string, noteId, userId uuid.UUID, title string) {
	if c.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"note_id": noteId,
			"user_id": userId,
			"title":   title,
		},
		OccurredAt: time.Now(),
	}
	if err := c.eventPublisher.Publish(ctx, evt); err != nil {
		c.logger.Warn("note", "failed to publish event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}

func toShowNoteResponse(note *entity.Note) *dto.ShowNoteResponse {
	return &dto.ShowNoteResponse{
		Id:        note.Id,
		Title:     note.Title,
		Content:   note.Content,
		Tags:      note.Tags,
		OwnerId:   note.UserId,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}
