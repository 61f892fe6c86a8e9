package cache

const keyPrefix = "viewer-"

// Key generates the cache key for a channel's viewer collection.
// Format: viewer-{channelID}
//
// Example:
//
//	viewer-123456789
func Key(channelID string) string {
	return keyPrefix + channelID
}
