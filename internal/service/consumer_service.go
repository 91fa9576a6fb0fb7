package service

import (
	"context"
	"encoding/json"

	"notesearch-be/internal/dto"
	"notesearch-be/internal/pkg/logger"
	"notesearch-be/internal/repository/specification"
	"notesearch-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the embed queue: each message names a note whose
// embedding may be stale. The fingerprint check inside the embedding service
// makes redundant messages cheap.
type consumerService struct {
	pubSub           *gochannel.GoChannel
	topicName        string
	uowFactory       unitofwork.RepositoryFactory
	embeddingService IEmbeddingService
	logger           logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingService IEmbeddingService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:           pubSub,
		topicName:        topicName,
		uowFactory:       uowFactory,
		embeddingService: embeddingService,
		logger:           log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedNoteMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "failed to unmarshal embed message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed, retrying won't help
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: payload.NoteId})
	if err != nil {
		cs.logger.Error("consumer", "failed to fetch note", map[string]interface{}{
			"note_id": payload.NoteId.String(),
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}
	if note == nil {
		// Deleted between publish and consume; nothing to embed.
		msg.Ack()
		return
	}

	// Upsert swallows embedding failures by contract: the note write already
	// succeeded and must stay visible to keyword search either way.
	cs.embeddingService.Upsert(ctx, note.Id, note.Title, note.Content)
	msg.Ack()
}
