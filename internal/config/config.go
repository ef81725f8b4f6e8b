package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration required by the API process.
// Values come from env (optionally seeded from a .env file).
// Channel enablement is decided here once and never re-read per request.
type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	Admin     AdminConfig
	Email     EmailConfig
	Voice     VoiceConfig
	Webhook   WebhookConfig
	Marketing MarketingConfig
}

type AppConfig struct {
	Env       string
	Port      int
	LogFormat string
	BrandName string
}

// DBConfig is optional outside production. An empty Host means no store.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string

	// Accepts: disable, require, verify-ca, verify-full
	SSLMode string

	// MaxConns sizes the pool; 0 uses the pool default.
	MaxConns int
}

type RedisConfig struct {
	Host string
	Port int
}

type AdminConfig struct {
	Password string
}

type EmailConfig struct {
	Provider string // mailgun | smtp
	From     string
	To       string

	MailgunAPIKey  string
	MailgunDomain  string
	MailgunAPIBase string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
}

type VoiceConfig struct {
	Provider    string // vapi | twilio
	NotifyPhone string

	VapiAPIKey        string
	VapiPhoneNumberID string
	VapiBaseURL       string

	TwilioAccountSID        string
	TwilioAuthToken         string
	TwilioFromNumber        string
	TwilioStatusCallbackURL string
}

type WebhookConfig struct {
	URL           string
	SigningSecret string
}

type MarketingConfig struct {
	Enabled      bool
	CronSecret   string
	Schedule     string
	SettingsFile string

	AnthropicAPIKey  string
	AnthropicModel   string
	AnthropicBaseURL string
}

const (
	EmailProviderMailgun = "mailgun"
	EmailProviderSMTP    = "smtp"

	VoiceProviderVapi   = "vapi"
	VoiceProviderTwilio = "twilio"
)

// Load reads .env (if present) then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = env("APP_ENV")
	{
		n, err := mustInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}
	c.App.LogFormat = env("LOG_FORMAT")
	c.App.BrandName = env("BRAND_NAME")

	c.DB.Host = env("DB_HOST")
	if c.DB.Host != "" {
		n, err := optionalInt("DB_PORT", 5432)
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.DB.Port = n
	}
	c.DB.User = env("DB_USER")
	c.DB.Password = os.Getenv("DB_PASSWORD")
	c.DB.Name = env("DB_NAME")
	c.DB.SSLMode = env("DB_SSLMODE")
	{
		n, err := optionalInt("DB_MAX_CONNS", 0)
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.DB.MaxConns = n
	}

	c.Redis.Host = env("REDIS_HOST")
	if c.Redis.Host != "" {
		n, err := optionalInt("REDIS_PORT", 6379)
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Redis.Port = n
	}

	c.Admin.Password = os.Getenv("ADMIN_PASSWORD")

	c.Email.Provider = strings.ToLower(env("EMAIL_PROVIDER"))
	c.Email.From = env("LEADS_NOTIFY_EMAIL_FROM")
	c.Email.To = env("LEADS_NOTIFY_EMAIL_TO")
	c.Email.MailgunAPIKey = os.Getenv("MAILGUN_API_KEY")
	c.Email.MailgunDomain = env("MAILGUN_DOMAIN")
	c.Email.MailgunAPIBase = env("MAILGUN_API_BASE")
	c.Email.SMTPHost = env("SMTP_HOST")
	{
		n, err := optionalInt("SMTP_PORT", 587)
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Email.SMTPPort = n
	}
	c.Email.SMTPUsername = env("SMTP_USERNAME")
	c.Email.SMTPPassword = os.Getenv("SMTP_PASSWORD")

	c.Voice.Provider = strings.ToLower(env("VOICE_PROVIDER"))
	c.Voice.NotifyPhone = env("VAPI_NOTIFY_PHONE")
	c.Voice.VapiAPIKey = os.Getenv("VAPI_API_KEY")
	c.Voice.VapiPhoneNumberID = env("VAPI_PHONE_NUMBER_ID")
	c.Voice.VapiBaseURL = env("VAPI_BASE_URL")
	c.Voice.TwilioAccountSID = env("TWILIO_ACCOUNT_SID")
	c.Voice.TwilioAuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	c.Voice.TwilioFromNumber = env("TWILIO_FROM_NUMBER")
	c.Voice.TwilioStatusCallbackURL = env("TWILIO_STATUS_CALLBACK_URL")

	c.Webhook.URL = env("N8N_WEBHOOK_URL")
	c.Webhook.SigningSecret = os.Getenv("N8N_WEBHOOK_SIGNING_SECRET")

	c.Marketing.Enabled = env("MARKETING_AI_ENABLED") != "false"
	c.Marketing.CronSecret = os.Getenv("CRON_SECRET")
	c.Marketing.Schedule = env("MARKETING_SCHEDULE")
	c.Marketing.SettingsFile = env("MARKETING_SETTINGS_FILE")
	c.Marketing.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	c.Marketing.AnthropicModel = env("ANTHROPIC_MODEL")
	c.Marketing.AnthropicBaseURL = env("ANTHROPIC_BASE_URL")

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the config and fills in defaults.
func (c *Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}
	if c.App.BrandName == "" {
		c.App.BrandName = "ASAP Jet"
	}

	if c.StoreConfigured() {
		if c.DB.Port <= 0 || c.DB.Port > 65535 {
			errs = append(errs, fmt.Errorf("DB_PORT must be a valid port, got %d", c.DB.Port))
		}
		if c.DB.User == "" {
			errs = append(errs, errors.New("DB_USER is required"))
		}
		if c.DB.Name == "" {
			errs = append(errs, errors.New("DB_NAME is required"))
		}
		if c.DB.SSLMode == "" {
			if c.IsProduction() {
				errs = append(errs, errors.New("DB_SSLMODE is required in production"))
			} else {
				c.DB.SSLMode = "disable"
			}
		}
		if c.DB.SSLMode != "" && !isValidSSLMode(c.DB.SSLMode) {
			errs = append(errs, fmt.Errorf("DB_SSLMODE must be one of disable, require, verify-ca, verify-full, got %q", c.DB.SSLMode))
		}
	} else if c.IsProduction() {
		errs = append(errs, errors.New("DB_HOST is required in production"))
	}

	if c.Redis.Host != "" && (c.Redis.Port <= 0 || c.Redis.Port > 65535) {
		errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
	}

	switch c.Email.Provider {
	case "":
		c.Email.Provider = EmailProviderMailgun
	case EmailProviderMailgun, EmailProviderSMTP:
	default:
		errs = append(errs, fmt.Errorf("EMAIL_PROVIDER must be one of mailgun, smtp, got %q", c.Email.Provider))
	}

	switch c.Voice.Provider {
	case "":
		c.Voice.Provider = VoiceProviderVapi
	case VoiceProviderVapi, VoiceProviderTwilio:
	default:
		errs = append(errs, fmt.Errorf("VOICE_PROVIDER must be one of vapi, twilio, got %q", c.Voice.Provider))
	}
	if c.Voice.VapiBaseURL == "" {
		c.Voice.VapiBaseURL = "https://api.vapi.ai"
	}

	if c.Webhook.URL != "" {
		if u, err := url.Parse(c.Webhook.URL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("N8N_WEBHOOK_URL must be an absolute url, got %q", c.Webhook.URL))
		}
	}

	if c.Marketing.AnthropicModel == "" {
		c.Marketing.AnthropicModel = "claude-sonnet-4-5"
	}
	if c.Marketing.AnthropicBaseURL == "" {
		c.Marketing.AnthropicBaseURL = "https://api.anthropic.com"
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c Config) StoreConfigured() bool {
	return c.DB.Host != ""
}

func (c Config) RedisConfigured() bool {
	return c.Redis.Host != ""
}

// EmailEnabled reports whether the selected email provider has every secret it needs.
func (c Config) EmailEnabled() bool {
	if c.Email.To == "" || c.Email.From == "" {
		return false
	}
	switch c.Email.Provider {
	case EmailProviderSMTP:
		return c.Email.SMTPHost != ""
	default:
		return c.Email.MailgunAPIKey != "" && c.Email.MailgunDomain != ""
	}
}

func (c Config) VoiceEnabled() bool {
	if c.Voice.NotifyPhone == "" {
		return false
	}
	switch c.Voice.Provider {
	case VoiceProviderTwilio:
		return c.Voice.TwilioAccountSID != "" && c.Voice.TwilioAuthToken != "" && c.Voice.TwilioFromNumber != ""
	default:
		return c.Voice.VapiAPIKey != "" && c.Voice.VapiPhoneNumberID != ""
	}
}

func (c Config) WebhookEnabled() bool {
	return c.Webhook.URL != ""
}

func (c Config) PostgresDSN() string {
	// Avoid logging this string; it contains secrets.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

// PostgresURL is the URL form of the DSN, as the migration driver expects.
func (c Config) PostgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DB.User, c.DB.Password),
		Host:     fmt.Sprintf("%s:%d", c.DB.Host, c.DB.Port),
		Path:     "/" + c.DB.Name,
		RawQuery: url.Values{"sslmode": []string{c.DB.SSLMode}}.Encode(),
	}
	return u.String()
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func mustInt(key string) (int, error) {
	v := env(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func optionalInt(key string, def int) (int, error) {
	if env(key) == "" {
		return def, nil
	}
	return mustInt(key)
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func isValidSSLMode(v string) bool {
	switch v {
	case "disable", "require", "verify-ca", "verify-full":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
