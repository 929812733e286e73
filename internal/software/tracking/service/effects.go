package service

import "context"

// effect is one post-commit side effect. Effects run in declaration order
// after the durable write has committed. A failed effect is logged and
// skipped; it never affects the committed state or the caller's result.
type effect struct {
	name string
	run  func(ctx context.Context) error
}

func (service *trackingService) runEffects(ctx context.Context, orderID string, effects []effect) {
	for _, ef := range effects {
		if err := ef.run(ctx); err != nil {
			service.logger.Warn(ctx, "post_commit_effect_failed",
				"Post-commit effect failed; durable state is unaffected", err,
				map[string]any{"order_id": orderID, "effect": ef.name})
		}
	}
}

// broadcastEffect wraps a room broadcast as an effect. Broadcast itself is
// fire-and-forget, so the effect never fails.
func (service *trackingService) broadcastEffect(orderID, event string, payload any) effect {
	return effect{
		name: "broadcast_" + event,
		run: func(ctx context.Context) error {
			service.rooms.Broadcast(ctx, orderID, event, payload)
			return nil
		},
	}
}

// purgeCacheEffect drops the order's cached location sample.
func (service *trackingService) purgeCacheEffect(orderID string) effect {
	return effect{
		name: "cache_purge",
		run: func(ctx context.Context) error {
			return service.cache.Purge(ctx, orderID)
		},
	}
}
