package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"sojourn/internal/stay/datewindow"
	"sojourn/internal/stay/models"
	id "sojourn/pkg/domain"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	var out kgo.ProduceResults
	for _, r := range rs {
		f.records = append(f.records, r)
		out = append(out, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return out
}

func sampleEvaluation() Evaluation {
	next := datewindow.Date(2024, 7, 1)
	result := &models.CountryResult{
		Status: models.StayStatus{
			JurisdictionCode:  "SCHENGEN",
			ReferenceDate:     datewindow.Date(2024, 4, 30),
			DaysUsed:          90,
			MaxAllowedDays:    90,
			WarningLevel:      models.LevelDanger,
			NextAvailableDate: &next,
		},
		Violations: []models.StayViolation{{Type: models.ViolationExceedsLimit}},
	}
	return NewEvaluation(id.NewTravelerID(), "stay_exited", result, time.Date(2024, 4, 30, 12, 0, 0, 0, time.UTC))
}

func TestNewEvaluation(t *testing.T) {
	e := sampleEvaluation()
	assert.Equal(t, id.JurisdictionCode("SCHENGEN"), e.JurisdictionCode)
	assert.Equal(t, 90, e.DaysUsed)
	assert.Equal(t, models.LevelDanger, e.WarningLevel)
	assert.Equal(t, 1, e.ViolationCount)
	assert.Equal(t, "stay_exited", e.Trigger)
}

func TestKafkaPublisher(t *testing.T) {
	t.Run("records are keyed by traveler", func(t *testing.T) {
		fake := &fakeProducer{}
		p := &KafkaPublisher{client: fake, topic: DefaultTopic}
		e := sampleEvaluation()

		require.NoError(t, p.PublishEvaluation(context.Background(), e))
		require.Len(t, fake.records, 1)

		r := fake.records[0]
		assert.Equal(t, DefaultTopic, r.Topic)
		assert.Equal(t, e.TravelerID.String(), string(r.Key))

		var decoded Evaluation
		require.NoError(t, json.Unmarshal(r.Value, &decoded))
		assert.Equal(t, e.DaysUsed, decoded.DaysUsed)
		assert.Equal(t, e.WarningLevel, decoded.WarningLevel)
	})

	t.Run("produce errors are returned", func(t *testing.T) {
		fake := &fakeProducer{err: errors.New("broker down")}
		p := &KafkaPublisher{client: fake, topic: DefaultTopic}

		err := p.PublishEvaluation(context.Background(), sampleEvaluation())
		assert.ErrorContains(t, err, "broker down")
	})
}
