package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"charter-leads/internal/audit"
	"charter-leads/internal/auth"
	"charter-leads/internal/calls"
	"charter-leads/internal/config"
	"charter-leads/internal/httpapi"
	"charter-leads/internal/leads"
	"charter-leads/internal/marketing"
	"charter-leads/internal/notify"
	"charter-leads/internal/reporting"
	"charter-leads/internal/telephony"
	"charter-leads/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// app holds the process-wide collaborators. Everything is built once at
// startup; nothing here is re-read per request.
type app struct {
	db  *sql.DB
	rdb *redis.Client

	leads      *leads.Service
	calls      *calls.Service
	dispatcher *notify.Dispatcher
	marketing  *marketing.Service
	scheduler  *marketing.Scheduler
}

func buildApp(ctx context.Context, cfg config.Config, log *slog.Logger) (*app, error) {
	a := &app{}

	var (
		leadRepo leads.Repository = leads.UnavailableRepo{}
		callRepo calls.Repository = calls.UnavailableRepo{}
	)
	if cfg.StoreConfigured() {
		db, err := utils.OpenPostgres(ctx, cfg.PostgresDSN(), cfg.DB.MaxConns)
		if err != nil {
			return nil, fmt.Errorf("postgres init: %w", err)
		}
		a.db = db
		leadRepo = leads.NewPostgresRepo(db)
		callRepo = calls.NewPostgresRepo(db)
	} else {
		log.Warn("store not configured: lead creation will fail and admin reads return empty lists")
	}

	var locker marketing.Locker
	if cfg.RedisConfigured() {
		rdb, err := utils.OpenRedis(ctx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			a.close()
			return nil, fmt.Errorf("redis init: %w", err)
		}
		a.rdb = rdb
		locker = utils.NewRedisLocker(rdb, 0)
	}

	a.calls = calls.NewService(callRepo)

	channels, err := buildChannels(cfg, a.calls)
	if err != nil {
		a.close()
		return nil, err
	}
	a.dispatcher = notify.NewDispatcher(log, channels...)
	a.leads = leads.NewService(leadRepo, a.dispatcher)

	if err := a.buildMarketing(cfg, log, locker); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func buildChannels(cfg config.Config, recorder notify.CallRecorder) ([]notify.Channel, error) {
	var out []notify.Channel
	brand := cfg.App.BrandName

	if cfg.EmailEnabled() {
		var sender notify.EmailSender
		switch cfg.Email.Provider {
		case config.EmailProviderSMTP:
			s, err := notify.NewSMTPSender(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPUsername, cfg.Email.SMTPPassword)
			if err != nil {
				return nil, err
			}
			sender = s
		default:
			sender = notify.NewMailgunSender(cfg.Email.MailgunAPIKey, cfg.Email.MailgunDomain, cfg.Email.MailgunAPIBase)
		}
		out = append(out, notify.NewEmailChannel(sender, cfg.Email.From, cfg.Email.To, brand))
	}

	if cfg.VoiceEnabled() {
		var placer telephony.CallPlacer
		switch cfg.Voice.Provider {
		case config.VoiceProviderTwilio:
			placer = telephony.NewTwilioPlacer(telephony.TwilioOptions{
				AccountSID:        cfg.Voice.TwilioAccountSID,
				AuthToken:         cfg.Voice.TwilioAuthToken,
				FromNumber:        cfg.Voice.TwilioFromNumber,
				StatusCallbackURL: cfg.Voice.TwilioStatusCallbackURL,
			})
		default:
			placer = telephony.NewVapiClient(telephony.VapiOptions{
				BaseURL:       cfg.Voice.VapiBaseURL,
				APIKey:        cfg.Voice.VapiAPIKey,
				PhoneNumberID: cfg.Voice.VapiPhoneNumberID,
				BrandName:     brand,
			})
		}
		out = append(out, notify.NewVoiceChannel(placer, recorder, cfg.Voice.NotifyPhone, brand))
	}

	if cfg.WebhookEnabled() {
		var signer notify.RequestSigner
		if cfg.Webhook.SigningSecret != "" {
			s, err := auth.NewSigner(cfg.Webhook.SigningSecret, brand, 5*time.Minute)
			if err != nil {
				return nil, err
			}
			signer = s
		}
		out = append(out, notify.NewWebhookChannel(cfg.Webhook.URL, signer))
	}
	return out, nil
}

func (a *app) buildMarketing(cfg config.Config, log *slog.Logger, locker marketing.Locker) error {
	if a.db == nil {
		log.Warn("marketing optimization needs the store; endpoint reports disabled")
		return nil
	}
	settings, err := marketing.LoadSettings(cfg.Marketing.SettingsFile)
	if err != nil {
		return err
	}

	var planner marketing.Planner
	if cfg.Marketing.AnthropicAPIKey != "" {
		client, err := marketing.NewAnthropicClient(log, cfg.Marketing.AnthropicBaseURL, cfg.Marketing.AnthropicAPIKey, cfg.Marketing.AnthropicModel, 0)
		if err != nil {
			return err
		}
		planner = marketing.NewAdvisor(client, settings, cfg.App.BrandName)
	}

	a.marketing = marketing.NewService(
		reporting.NewService(reporting.NewPostgresRepo(a.db)),
		marketing.NewPostgresStore(a.db),
		planner,
		audit.NewService(audit.NewPostgresRepo(a.db)),
		marketing.Options{Enabled: cfg.Marketing.Enabled, Locker: locker, Logger: log},
	)

	if cfg.Marketing.Schedule != "" {
		s, err := marketing.NewScheduler(log, a.marketing, cfg.Marketing.Schedule)
		if err != nil {
			return fmt.Errorf("marketing schedule: %w", err)
		}
		a.scheduler = s
	}
	return nil
}

func (a *app) routes(cfg config.Config) routeDeps {
	h := httpapi.Handlers{Leads: a.leads, Calls: a.calls}
	if a.marketing != nil {
		h.Marketing = a.marketing
	}
	if a.db != nil {
		db := a.db
		h.StoreCheck = func(ctx context.Context) error { return utils.HealthCheck(ctx, db, 2*time.Second) }
	}
	return routeDeps{
		Handlers:    h,
		CallEvents:  a.calls,
		AdminSecret: cfg.Admin.Password,
		CronSecret:  cfg.Marketing.CronSecret,
	}
}

func (a *app) close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
