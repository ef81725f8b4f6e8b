package telephony

import (
	"context"
	"io"
	"net/http"

	"charter-leads/internal/calls"
	"charter-leads/pkg/logger"

	"github.com/gin-gonic/gin"
)

// EventApplier records a lifecycle event. *calls.Service implements it.
type EventApplier interface {
	ApplyEvent(ctx context.Context, e calls.Event) (calls.Result, error)
}

const maxWebhookBody = 1 << 20

// VapiWebhookHandler converts Vapi call-status webhooks into lifecycle events.
//
// No business logic here. Malformed or id-less events are acknowledged as
// skipped so the provider does not keep retrying them.
type VapiWebhookHandler struct {
	Calls EventApplier
}

func (h VapiWebhookHandler) HandleStatusEvent(c *gin.Context) {
	log := logger.FromGin(c)

	if h.Calls == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "call log store not configured"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		log.Warn("vapi webhook read failed", "err", err)
		c.JSON(http.StatusOK, gin.H{"success": true, "skipped": true})
		return
	}
	ev, err := ParseVapiStatusEvent(body)
	if err != nil {
		log.Warn("vapi webhook parse failed", "err", err)
		c.JSON(http.StatusOK, gin.H{"success": true, "skipped": true})
		return
	}

	applyEvent(c, h.Calls, ev)
}

func (h VapiWebhookHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Vapi call status webhook is ready"})
}

// TwilioStatusHandler consumes Twilio status callbacks for calls placed by TwilioPlacer.
// NOTE: This endpoint should be protected by Twilio signature validation in production.
type TwilioStatusHandler struct {
	Calls EventApplier
}

func (h TwilioStatusHandler) HandleStatusCallback(c *gin.Context) {
	log := logger.FromGin(c)

	if h.Calls == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "call log store not configured"})
		return
	}

	form, err := ParseTwilioStatusCallback(c.Request)
	if err != nil {
		log.Warn("twilio status parse failed", "err", err)
		c.JSON(http.StatusOK, gin.H{"success": true, "skipped": true})
		return
	}
	applyEvent(c, h.Calls, form.ToEvent())
}

func applyEvent(c *gin.Context, applier EventApplier, ev calls.Event) {
	log := logger.FromGin(c)

	res, err := applier.ApplyEvent(c.Request.Context(), ev)
	if err != nil {
		log.Error("call log update failed", "call_id", ev.CallID, "event", ev.Type, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to process webhook"})
		return
	}
	if res.Skipped {
		log.Info("call event skipped", "event", ev.Type, "reason", "missing call id")
		c.JSON(http.StatusOK, gin.H{"success": true, "skipped": true})
		return
	}

	log.Info("call event applied", "call_id", res.CallID, "event", ev.Type, "status", res.Status, "final", res.Final)
	c.JSON(http.StatusOK, gin.H{"success": true, "callId": res.CallID, "status": res.Status})
}
