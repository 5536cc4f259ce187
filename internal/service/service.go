package service

import (
	"bullpen/internal/cache"
	"bullpen/internal/entity"
	"bullpen/internal/messaging"
	"bullpen/internal/search"
)

type Services struct {
	Events    *EventService
	Refunds   *RefundQueryService
	Analytics *AnalyticsService
	Presets   *PresetService
	Portfolio *PortfolioService
	Polls     *PollService
	Alerts    *AlertService
}

func NewServices(stores *entity.Stores, natsClient *messaging.NATSClient, valkeyClient *cache.ValkeyClient, esClient *search.ElasticsearchClient, commissionRatePct string) *Services {
	eventService := NewEventService(stores, natsClient, valkeyClient, esClient)
	analyticsService := NewAnalyticsService(stores, commissionRatePct)
	presetService := NewPresetService(valkeyClient)
	portfolioService := NewPortfolioService(stores)
	pollService := NewPollService(stores)
	alertService := NewAlertService(stores)

	return &Services{
		Events:    eventService,
		Refunds:   NewRefundQueryService(stores),
		Analytics: analyticsService,
		Presets:   presetService,
		Portfolio: portfolioService,
		Polls:     pollService,
		Alerts:    alertService,
	}
}
