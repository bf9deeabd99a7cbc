package ports

// FeedServer defines the interface for a long-running feed endpoint
type FeedServer interface {
	// Start starts serving and returns once the listener is up
	Start() error

	// Stop stops the server, draining in-flight requests
	Stop() error
}
