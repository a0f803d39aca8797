// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// ReviewCreatedEvent is published when a review is successfully stored. It
// carries enough information for downstream consumers to log or trigger
// analytics without querying the primary database.
type ReviewCreatedEvent struct {
	ReviewID  int64   `json:"review_id"`
	MovieID   int64   `json:"movie_id"`
	UserID    int64   `json:"user_id"`
	Username  string  `json:"username"`
	Rating    float64 `json:"rating"`
	CreatedAt string  `json:"created_at"`
}

// ReviewQueueName is the durable queue both publisher and consumer declare.
const ReviewQueueName = "review.created"
