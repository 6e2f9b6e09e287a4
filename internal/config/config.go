package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone   = "UTC"
	configPathEnv     = "HEATWATCH_CONFIG"
	databasePathEnv   = "HEATWATCH_DB_PATH"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Database      DatabaseConfig     `yaml:"database"`
	Scraper       ScraperConfig      `yaml:"scraper"`
	Report        ReportConfig       `yaml:"report"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Notifications NotificationConfig `yaml:"notifications"`
	Sources       []SourceConfig     `yaml:"sources"`
}

// LoggingConfig selects slog verbosity and the optional log file.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DatabaseConfig describes the SQLite file location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ScraperConfig bounds crawl volume and politeness.
type ScraperConfig struct {
	RequestDelaySeconds   int    `yaml:"requestDelaySeconds"`
	RequestTimeoutSeconds int    `yaml:"requestTimeoutSeconds"`
	MaxArticlesPerSource  int    `yaml:"maxArticlesPerSource"`
	MaxArticlesPerRun     int    `yaml:"maxArticlesPerRun"`
	RetryAttempts         int    `yaml:"retryAttempts"`
	RetryDelaySeconds     int    `yaml:"retryDelaySeconds"`
	UserAgent             string `yaml:"userAgent"`
	DetectLanguage        bool   `yaml:"detectLanguage"`
}

// RequestDelay converts the configured politeness delay.
func (s ScraperConfig) RequestDelay() time.Duration {
	return time.Duration(s.RequestDelaySeconds) * time.Second
}

// RequestTimeout converts the configured HTTP timeout.
func (s ScraperConfig) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

// RetryDelay converts the configured backoff base delay.
func (s ScraperConfig) RetryDelay() time.Duration {
	return time.Duration(s.RetryDelaySeconds) * time.Second
}

// ReportConfig controls where the text summary and CSV export land.
type ReportConfig struct {
	Path    string `yaml:"path"`
	CSVPath string `yaml:"csvPath"`
	TopN    int    `yaml:"topN"`
}

// SchedulerConfig defines when runs execute; an empty cron expression
// means a single immediate run.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// SourceConfig describes a single news site with its discovery strategy.
type SourceConfig struct {
	Name     string   `yaml:"name"`
	URL      string   `yaml:"url"`
	Scanner  string   `yaml:"scanner"`
	Sections []string `yaml:"sections"`
	Feeds    []string `yaml:"feeds"`
	Language string   `yaml:"language"`
	Bias     string   `yaml:"bias"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.File != "" {
		base.Logging.File = override.Logging.File
	}

	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if override.Scraper.RequestDelaySeconds > 0 {
		base.Scraper.RequestDelaySeconds = override.Scraper.RequestDelaySeconds
	}
	if override.Scraper.RequestTimeoutSeconds > 0 {
		base.Scraper.RequestTimeoutSeconds = override.Scraper.RequestTimeoutSeconds
	}
	if override.Scraper.MaxArticlesPerSource > 0 {
		base.Scraper.MaxArticlesPerSource = override.Scraper.MaxArticlesPerSource
	}
	if override.Scraper.MaxArticlesPerRun > 0 {
		base.Scraper.MaxArticlesPerRun = override.Scraper.MaxArticlesPerRun
	}
	if override.Scraper.RetryAttempts > 0 {
		base.Scraper.RetryAttempts = override.Scraper.RetryAttempts
	}
	if override.Scraper.RetryDelaySeconds > 0 {
		base.Scraper.RetryDelaySeconds = override.Scraper.RetryDelaySeconds
	}
	if override.Scraper.UserAgent != "" {
		base.Scraper.UserAgent = override.Scraper.UserAgent
	}
	if override.Scraper.DetectLanguage {
		base.Scraper.DetectLanguage = true
	}

	if override.Report.Path != "" {
		base.Report.Path = override.Report.Path
	}
	if override.Report.CSVPath != "" {
		base.Report.CSVPath = override.Report.CSVPath
	}
	if override.Report.TopN > 0 {
		base.Report.TopN = override.Report.TopN
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:  LoggingConfig{Level: "info", File: "scraper.log"},
		Database: DatabaseConfig{Path: "imperial_valley_heat_deaths.db"},
		Scraper: ScraperConfig{
			RequestDelaySeconds:   12,
			RequestTimeoutSeconds: 15,
			MaxArticlesPerSource:  50,
			MaxArticlesPerRun:     200,
			RetryAttempts:         2,
			RetryDelaySeconds:     5,
			UserAgent:             "Mozilla/5.0 (Academic Research - Heat Death Study) AppleWebKit/537.36",
			DetectLanguage:        false,
		},
		Report: ReportConfig{
			Path: "scraping_report.txt",
			TopN: 10,
		},
		Scheduler: SchedulerConfig{CronExpression: "", Timezone: defaultTimezone, location: tz},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{BotToken: "", ChatID: ""},
		},
		Sources: []SourceConfig{
			{
				Name:     "Imperial Valley Press",
				URL:      "https://www.ivpressonline.com",
				Scanner:  "sections",
				Sections: []string{"/news/local/", "/news/"},
				Language: "en",
				Bias:     "LOCAL-UNRATED",
			},
			{
				Name:     "Calexico Chronicle",
				URL:      "https://calexicochronicle.com",
				Scanner:  "sections",
				Sections: []string{"/"},
				Language: "en",
				Bias:     "LOCAL-UNRATED",
			},
			{
				Name:     "Holtville Tribune",
				URL:      "https://holtvilletribune.com",
				Scanner:  "sections",
				Sections: []string{"/category/regional-news/"},
				Language: "en",
				Bias:     "LOCAL-UNRATED",
			},
			{
				Name:     "The Desert Review",
				URL:      "https://www.thedesertreview.com",
				Scanner:  "sections",
				Sections: []string{"/news/local/"},
				Language: "en",
				Bias:     "LOCAL-UNRATED",
			},
			{
				Name:     "Adelante Valle",
				URL:      "https://www.ivpressonline.com",
				Scanner:  "sections",
				Sections: []string{"/adelante-valle/"},
				Language: "es",
				Bias:     "LOCAL-UNRATED",
			},
		},
	}
}
