package kafka

import (
	"context"
	"testing"

	"github.com/alimikegami/point-of-sales/storefront-service/config"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/dto"
	"github.com/stretchr/testify/assert"
)

func TestCreateKafkaWriter(t *testing.T) {
	conf := &config.Config{KafkaConfig: config.KafkaConfig{BrokerAddress: "localhost:9092", BrokerTopic: "storefront-orders"}}

	writer := CreateKafkaWriter(conf)
	assert.Equal(t, "storefront-orders", writer.Topic)
	assert.Equal(t, "localhost:9092", writer.Addr.String())
	assert.True(t, writer.Async)
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), "ABC123", dto.KafkaMessage{EventType: "order_created"}))
}
