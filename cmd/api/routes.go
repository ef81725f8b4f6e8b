package main

import (
	"charter-leads/internal/auth"
	"charter-leads/internal/httpapi"
	"charter-leads/internal/telephony"

	"github.com/gin-gonic/gin"
)

type routeDeps struct {
	Handlers   httpapi.Handlers
	CallEvents telephony.EventApplier

	AdminSecret string
	CronSecret  string
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, d routeDeps) {
	h := d.Handlers

	// public
	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	api.POST("/leads", h.SubmitLead)

	// Voice provider webhooks (public, trusted by network config).
	{
		api.POST("/vapi/inbound", h.VoiceInbound)
		api.GET("/vapi/inbound", h.VoiceInboundHealth)

		vapi := telephony.VapiWebhookHandler{Calls: d.CallEvents}
		api.POST("/vapi/webhook", vapi.HandleStatusEvent)
		api.GET("/vapi/webhook", vapi.Health)

		api.POST("/twilio/status", telephony.TwilioStatusHandler{Calls: d.CallEvents}.HandleStatusCallback)
	}

	admin := api.Group("/admin")
	admin.Use(auth.RequireSharedSecret(d.AdminSecret))
	{
		admin.GET("/leads", h.ListLeads)
		admin.GET("/call-logs", h.ListCallLogs)
	}

	mkt := api.Group("/marketing")
	mkt.Use(auth.RequireSharedSecret(d.CronSecret))
	{
		mkt.GET("/optimize", h.MarketingOptimize)
		mkt.POST("/optimize", h.MarketingOptimize)
	}
}
