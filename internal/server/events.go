package server

import (
	"context"
	"time"

	"marketplace/internal/featureflags"
	"marketplace/internal/middleware"
	"marketplace/internal/models"
	"marketplace/internal/notifications"
	"marketplace/internal/service"
)

// Events are published after the response data is final. A failed publish is
// logged and never changes the response.

func (s *Server) publishUserEvent(ctx context.Context, userID uint, eventType string, payload map[string]any) {
	if err := s.notifier.PublishUser(context.WithoutCancel(ctx), userID, eventType, payload); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish user event",
			"event", eventType, "target_user_id", userID, "error", err)
	}
}

func (s *Server) publishBroadcastEvent(ctx context.Context, eventType string, payload map[string]any) {
	if err := s.notifier.PublishBroadcast(context.WithoutCancel(ctx), eventType, payload); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish broadcast event",
			"event", eventType, "error", err)
	}
}

func (s *Server) publishListingCreated(ctx context.Context, p *models.Product) {
	s.publishBroadcastEvent(ctx, notifications.EventListingCreated, map[string]any{
		"product_id": p.ID,
		"title":      p.Title,
		"category":   p.Category,
		"price":      p.Price,
		"owner_id":   p.OwnerID,
		"created_at": p.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) publishListingDeleted(ctx context.Context, p *models.Product) {
	s.publishBroadcastEvent(ctx, notifications.EventListingDeleted, map[string]any{
		"product_id": p.ID,
		"owner_id":   p.OwnerID,
	})
}

// publishCheckout tells every seller what sold and the buyer that the order completed.
func (s *Server) publishCheckout(ctx context.Context, buyerID uint, result *service.CheckoutResult) {
	for _, sold := range result.Sold {
		if !s.featureFlags.Enabled(featureflags.SellerNotifications, sold.SellerID) {
			continue
		}
		s.publishUserEvent(ctx, sold.SellerID, notifications.EventProductSold, map[string]any{
			"order_id":   result.OrderID,
			"product_id": sold.ProductID,
			"title":      sold.Title,
			"price":      sold.Price,
			"quantity":   sold.Quantity,
			"buyer_id":   buyerID,
		})
	}

	s.publishUserEvent(ctx, buyerID, notifications.EventCheckoutCompleted, map[string]any{
		"order_id":     result.OrderID,
		"total_items":  result.TotalItems,
		"total_amount": result.TotalAmount,
	})
}
