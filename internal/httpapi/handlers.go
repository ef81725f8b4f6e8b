package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"charter-leads/internal/calls"
	"charter-leads/internal/leads"
	"charter-leads/internal/marketing"
	"charter-leads/pkg/logger"

	"github.com/gin-gonic/gin"
)

// LeadService is implemented by *leads.Service.
type LeadService interface {
	SubmitForm(ctx context.Context, f leads.FormSubmission) (leads.Lead, error)
	IngestVoice(ctx context.Context, payload map[string]any) (leads.Lead, string, error)
	List(ctx context.Context) []leads.Lead
}

// CallLogReader is implemented by *calls.Service.
type CallLogReader interface {
	ListForLead(ctx context.Context, leadID string) []calls.CallLog
}

// Optimizer is implemented by *marketing.Service.
type Optimizer interface {
	Optimize(ctx context.Context) (marketing.Report, error)
}

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Leads     LeadService
	Calls     CallLogReader
	Marketing Optimizer

	// StoreCheck reports store reachability for /healthz. Nil means no store.
	StoreCheck func(ctx context.Context) error
}

const maxBody = 1 << 20

// --- Health ---

func (h Handlers) Healthz(c *gin.Context) {
	store := h.StoreCheck != nil && h.StoreCheck(c.Request.Context()) == nil
	c.JSON(http.StatusOK, gin.H{"status": "ok", "store": store})
}

// --- Leads ---

// SubmitLead handles the web form. Client-sent id and timestamp are ignored.
func (h Handlers) SubmitLead(c *gin.Context) {
	log := logger.FromGin(c)

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBody))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid form data", "details": gin.H{"body": err.Error()}})
		return
	}
	form, err := leads.DecodeForm(body)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid form data",
			"details": gin.H{"body": err.Error()},
		})
		return
	}

	lead, err := h.Leads.SubmitForm(c.Request.Context(), form)
	if err != nil {
		var verr *leads.ValidationError
		if errors.As(err, &verr) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Invalid form data",
				"details": verr.Fields,
			})
			return
		}
		log.Error("lead submission failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}

	log.Info("lead created", "lead_id", lead.ID, "urgency", lead.Urgency, "source", "web")
	c.JSON(http.StatusCreated, gin.H{"success": true, "leadId": lead.ID})
}

// VoiceInbound accepts any of the voice-AI payload shapes. Missing fields are
// defaulted, never rejected.
func (h Handlers) VoiceInbound(c *gin.Context) {
	log := logger.FromGin(c)

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBody))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid JSON payload"})
		return
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid JSON payload"})
		return
	}

	lead, shape, err := h.Leads.IngestVoice(c.Request.Context(), payload)
	if err != nil {
		log.Error("voice lead ingest failed", "shape", shape, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to process call data",
			"details": err.Error(),
		})
		return
	}

	log.Info("lead created", "lead_id", lead.ID, "urgency", lead.Urgency, "source", "voice", "shape", shape)
	c.JSON(http.StatusOK, gin.H{"success": true, "leadId": lead.ID, "message": "Lead created from phone call"})
}

func (h Handlers) VoiceInboundHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"service":  "vapi-inbound-webhook",
		"endpoint": "Use POST to submit call data",
	})
}

// --- Admin ---

func (h Handlers) ListLeads(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"leads": h.Leads.List(c.Request.Context())})
}

func (h Handlers) ListCallLogs(c *gin.Context) {
	leadID := strings.TrimSpace(c.Query("leadId"))
	if leadID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Lead ID is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"callLogs": h.Calls.ListForLead(c.Request.Context(), leadID)})
}

// --- Marketing ---

func (h Handlers) MarketingOptimize(c *gin.Context) {
	log := logger.FromGin(c)

	if h.Marketing == nil {
		c.JSON(http.StatusOK, gin.H{"status": "disabled"})
		return
	}
	report, err := h.Marketing.Optimize(c.Request.Context())
	switch {
	case errors.Is(err, marketing.ErrDisabled):
		c.JSON(http.StatusOK, gin.H{"status": "disabled"})
	case errors.Is(err, marketing.ErrLocked):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"status": "error", "error": "optimization already running"})
	case err != nil:
		log.Error("marketing optimization failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{
			"status":           "success",
			"timestamp":        report.Timestamp,
			"summary":          report.Summary,
			"optimizationPlan": report.Plan,
		})
	}
}
