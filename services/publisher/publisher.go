package publisher

// Publisher hands extraction records to downstream persistence and
// alerting collaborators.
type Publisher interface {
	// Publish publishes one result record keyed by product id
	Publish(productID string, message []byte) error

	// TrimStream trims the stream to the configured maximum length
	TrimStream() error

	// Close closes the publisher connection
	Close() error
}
