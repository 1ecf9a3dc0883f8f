package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ferreirogomes/propfolio/logging"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, msg)
	return args.Error(0)
}

func (m *MockChannel) Close() error {
	return m.Called().Error(0)
}

func TestBuildPublishing(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ctx := logging.ContextWithTraceID(context.Background(), "trace-1")

	msg, err := buildPublishing(ctx, NewPropertyEvent(PropertyCreated, "abc", at))
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, PropertyCreated, msg.Type)
	assert.Equal(t, "trace-1", msg.Headers["x-trace-id"])

	var decoded PropertyEvent
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, "abc", decoded.PropertyID)
	assert.True(t, at.Equal(decoded.OccurredAt))
}

func TestRabbitPublisherPublish(t *testing.T) {
	ch := new(MockChannel)
	p := &RabbitPublisher{ch: ch, exchange: "properties.events"}

	ch.On("PublishWithContext", "properties.events", PropertyDeleted, mock.AnythingOfType("amqp091.Publishing")).Return(nil).Once()
	err := p.Publish(context.Background(), NewPropertyEvent(PropertyDeleted, "abc", time.Now()))
	assert.NoError(t, err)

	ch.On("PublishWithContext", "properties.events", PropertyUpdated, mock.Anything).Return(errors.New("channel closed")).Once()
	err = p.Publish(context.Background(), NewPropertyEvent(PropertyUpdated, "abc", time.Now()))
	assert.ErrorContains(t, err, "channel closed")

	ch.On("Close").Return(nil).Once()
	assert.NoError(t, p.Close())

	ch.AssertExpectations(t)
}

func TestNoopPublisher(t *testing.T) {
	var p NoopPublisher
	assert.NoError(t, p.Publish(context.Background(), PropertyEvent{}))
	assert.NoError(t, p.Close())
}
