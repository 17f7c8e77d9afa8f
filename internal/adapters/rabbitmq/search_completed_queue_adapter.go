// Package rabbitmq publishes search lifecycle events for downstream
// consumers (alerting, analytics).
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
	"github.com/gonbooster/AIArriendo-sub000/pkg/rabbitmq/rabbitmq_producer"
)

// SearchCompletedEventDTO matches the search-completed/v1 contract.
type SearchCompletedEventDTO struct {
	SearchID      string         `json:"searchId"`
	City          string         `json:"city"`
	Neighborhoods []string       `json:"neighborhoods,omitempty"`
	TotalFound    int            `json:"totalFound"`
	HardMatches   int            `json:"hardMatches"`
	Sources       map[string]int `json:"sources"`
	TopResults    []TopResultDTO `json:"topResults"`
	CompletedAt   time.Time      `json:"completedAt"`
}

type TopResultDTO struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Score float64 `json:"score"`
	URL   string  `json:"url"`
}

const topResultsInEvent = 5

// SearchCompletedQueueAdapter publishes one event per finished search.
type SearchCompletedQueueAdapter struct {
	producer   *rabbitmq_producer.Publisher
	routingKey string
}

func NewSearchCompletedQueueAdapter(producer *rabbitmq_producer.Publisher, routingKey string) (*SearchCompletedQueueAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("routingKey cannot be empty")
	}
	return &SearchCompletedQueueAdapter{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

// Export publishes the SearchCompletedEvent for a finished search.
func (a *SearchCompletedQueueAdapter) Export(ctx context.Context, searchID string, result *domain.SearchResult) error {
	eventDTO := SearchCompletedEventDTO{
		SearchID:      searchID,
		City:          result.Location.City,
		Neighborhoods: result.Criteria.HardRequirements.Location.Neighborhoods,
		TotalFound:    result.Summary.TotalFound,
		HardMatches:   result.Summary.HardMatches,
		Sources:       result.Summary.SourceBreakdown,
		CompletedAt:   time.Now().UTC(),
	}
	for i, p := range result.Properties {
		if i == topResultsInEvent {
			break
		}
		eventDTO.TopResults = append(eventDTO.TopResults, TopResultDTO{
			ID:    p.ID,
			Title: p.Title,
			Price: p.TotalPrice(),
			Score: p.Score,
			URL:   p.URL,
		})
	}

	eventJSON, err := json.Marshal(eventDTO)
	if err != nil {
		return fmt.Errorf("failed to marshal search completed event %s: %w", searchID, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         eventJSON,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers: amqp.Table{
			"event-type":    "SearchCompletedEvent",
			"event-version": "1.0.0",
		},
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return a.producer.Publish(publishCtx, a.routingKey, msg)
}
