package utils

import (
	"sync"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

var messageMap sync.Map

// TrackMessage remembers the Kafka message a batch arrived on so its offset
// can be committed once the batch has been fully processed downstream.
func TrackMessage(batchID string, msg *kafka.Message) {
	messageMap.Store(batchID, msg)
}

func GetMessageForBatch(batchID string) (*kafka.Message, bool) {
	msg, ok := messageMap.Load(batchID)
	if !ok {
		return nil, false
	}
	messageMap.Delete(batchID)
	return msg.(*kafka.Message), true
}
