package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	DocumentKey          = "catalog:document"
	RevokedSessionPrefix = "session:revoked:%s"
	VideoChannelPrefix   = "catalog:video:%d"
	VideoChannelPattern  = "catalog:video:*"
)

const (
	DocumentTTL = time.Minute
)

// RevokedSessionKey is the key marking a logged-out session id.
func RevokedSessionKey(sessionID string) string {
	return fmt.Sprintf(RevokedSessionPrefix, sessionID)
}

// VideoChannel is the pub/sub channel carrying live counters for a video.
func VideoChannel(videoID int) string {
	return fmt.Sprintf(VideoChannelPrefix, videoID)
}

// Invalidate deletes key from the shared Redis client, if any.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}
