// Package events publishes evaluation snapshots for downstream consumers.
//
// A notification service reading these decides whether a warning-level
// change is worth alerting on; nothing here schedules or sends alerts.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"sojourn/internal/stay/models"
	id "sojourn/pkg/domain"
)

// DefaultTopic carries evaluation snapshots.
const DefaultTopic = "stay.evaluations"

// Evaluation is the payload written after a traveler's ledger changes.
type Evaluation struct {
	TravelerID        id.TravelerID       `json:"traveler_id"`
	JurisdictionCode  id.JurisdictionCode `json:"jurisdiction_code"`
	Trigger           string              `json:"trigger"`
	ReferenceDate     time.Time           `json:"reference_date"`
	DaysUsed          int                 `json:"days_used"`
	DaysRemaining     int                 `json:"days_remaining"`
	MaxAllowedDays    int                 `json:"max_allowed_days"`
	WarningLevel      models.WarningLevel `json:"warning_level"`
	NextAvailableDate *time.Time          `json:"next_available_date,omitempty"`
	ViolationCount    int                 `json:"violation_count"`
	IntegrityIssues   int                 `json:"integrity_issues"`
	EvaluatedAt       time.Time           `json:"evaluated_at"`
}

// NewEvaluation flattens a result into an event.
func NewEvaluation(travelerID id.TravelerID, trigger string, result *models.CountryResult, at time.Time) Evaluation {
	st := result.Status
	return Evaluation{
		TravelerID:        travelerID,
		JurisdictionCode:  st.JurisdictionCode,
		Trigger:           trigger,
		ReferenceDate:     st.ReferenceDate,
		DaysUsed:          st.DaysUsed,
		DaysRemaining:     st.DaysRemaining,
		MaxAllowedDays:    st.MaxAllowedDays,
		WarningLevel:      st.WarningLevel,
		NextAvailableDate: st.NextAvailableDate,
		ViolationCount:    len(result.Violations),
		IntegrityIssues:   len(result.IntegrityIssues),
		EvaluatedAt:       at,
	}
}

// producer is the slice of *kgo.Client the publisher needs.
type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaPublisher writes evaluations keyed by traveler so one traveler's
// events stay ordered within a partition.
type KafkaPublisher struct {
	client producer
	topic  string
}

// NewKafkaPublisher publishes to topic, or DefaultTopic when empty.
func NewKafkaPublisher(client *kgo.Client, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaPublisher{client: client, topic: topic}
}

func (p *KafkaPublisher) PublishEvaluation(ctx context.Context, e Evaluation) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal evaluation: %w", err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(e.TravelerID.String()),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "jurisdiction", Value: []byte(e.JurisdictionCode)},
			{Key: "warning_level", Value: []byte(e.WarningLevel)},
		},
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce evaluation: %w", err)
	}
	return nil
}

// EnsureTopic creates topic if it does not exist yet.
func EnsureTopic(ctx context.Context, admin *kadm.Client, topic string, partitions int32, replicationFactor int16) error {
	resp, err := admin.CreateTopic(ctx, partitions, replicationFactor, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", topic, resp.Err)
	}
	return nil
}
