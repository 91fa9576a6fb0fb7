package service

import (
	"context"
	"strings"

	"notesearch-be/internal/pkg/logger"
	"notesearch-be/pkg/events"
	pktNats "notesearch-be/pkg/nats"
)

// AuditService records every domain event the system publishes. It is a
// durable JetStream consumer, so events emitted while the service is down
// are replayed on restart.
type AuditService struct {
	subscriber *pktNats.Subscriber
	logger     logger.ILogger
}

func NewAuditService(sub *pktNats.Subscriber, log logger.ILogger) *AuditService {
	return &AuditService{
		subscriber: sub,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *AuditService) Start() {
	err := s.subscriber.Subscribe("events.>", "audit-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("AuditService", "Failed to start audit subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("AuditService", "Audit service started, listening to events.>", nil)
}

func (s *AuditService) handleEvent(ctx context.Context, event events.Event) error {
	// The subject carries the stream prefix; the envelope type does not.
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	details := map[string]interface{}{
		"type":        typeCode,
		"occurred_at": event.Timestamp(),
	}
	for k, v := range event.Payload() {
		details[k] = v
	}

	s.logger.Info("AuditService", "Domain event: "+typeCode, details)
	return nil
}
