package notifications

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"
	"strings"

	"vc7day/internal/cache"

	"github.com/redis/go-redis/v9"
)

// Notifier publishes counter events. With Redis every instance's hub
// receives them through the subscriber; without it, events go straight to
// the local hub.
type Notifier struct {
	rdb   *redis.Client
	local *VideoHub
}

// NewNotifier creates a new Notifier. rdb and local may each be nil.
func NewNotifier(rdb *redis.Client, local *VideoHub) *Notifier {
	return &Notifier{rdb: rdb, local: local}
}

// PublishCounters sends a counter event for its video.
func (n *Notifier) PublishCounters(ctx context.Context, event CounterEvent) error {
	if n == nil {
		return nil
	}
	payload, err := event.Encode()
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	if n.rdb == nil {
		if n.local != nil {
			n.local.BroadcastVideo(event.VideoID, payload)
		}
		return nil
	}
	return n.rdb.Publish(ctx, cache.VideoChannel(event.VideoID), payload).Err()
}

// StartVideoSubscriber subscribes to every video channel and calls onMessage
// for each incoming message until ctx is cancelled.
func (n *Notifier) StartVideoSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, cache.VideoChannelPattern)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", cache.VideoChannelPattern, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in VideoSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// VideoIDFromChannel parses the video id out of a channel name.
func VideoIDFromChannel(channel string) (int, bool) {
	raw, ok := strings.CutPrefix(channel, "catalog:video:")
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
