package kafka_client

import "time"

const (
	KAFKA_TOPIC_FEEDBACK_RAW       = "feedback-raw"       // raw multilingual feedback batches
	KAFKA_TOPIC_FEEDBACK_PROCESSED = "feedback-processed" // validated, translated, scored batches
)

const (
	MAX_RETRIES = 5
	RETRY_DELAY = 2 * time.Second
)
