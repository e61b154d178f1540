package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"TechBriefing/internal/domain"
)

const (
	defaultTimezone   = "UTC"
	configPathEnv     = "TECHBRIEFING_CONFIG"
	logLevelEnv       = "TECHBRIEFING_LOG_LEVEL"
	recordSeenEnv     = "TECHBRIEFING_RECORD_SEEN"
	databaseDSNEnv    = "DATABASE_DSN"
	redisAddrEnv      = "REDIS_ADDR"
	geminiAPIKeyEnv   = "GEMINI_API_KEY"
	openAIAPIKeyEnv   = "OPENAI_API_KEY"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Provider names accepted by the generator and synthesis sections.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderHTTP   = "http"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Storage   StorageConfig   `yaml:"storage"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Feeds     FeedsConfig     `yaml:"feeds"`
	Generator GeneratorConfig `yaml:"generator"`
	Speakers  SpeakersConfig  `yaml:"speakers"`
	Synthesis SynthesisConfig `yaml:"synthesis"`
	Mixer     MixerConfig     `yaml:"mixer"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Paths     PathsConfig     `yaml:"paths"`
}

// LoggingConfig selects slog level and handler format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// StorageConfig describes where seen item identifiers are kept.
type StorageConfig struct {
	Driver     string `yaml:"driver"`
	Path       string `yaml:"path"`
	DSN        string `yaml:"dsn"`
	RedisAddr  string `yaml:"redisAddr"`
	RedisKey   string `yaml:"redisKey"`
	RecordSeen bool   `yaml:"recordSeen"`
}

// SchedulerConfig defines when the pipeline runs under the schedule command.
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

// FeedsConfig lists the polled feeds.
type FeedsConfig struct {
	Sources        []FeedSourceConfig `yaml:"sources"`
	PerSourceLimit int                `yaml:"perSourceLimit"`
	TimeoutSeconds int                `yaml:"timeoutSeconds"`
	UserAgent      string             `yaml:"userAgent"`
}

// FeedSourceConfig is a single named feed URL.
type FeedSourceConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// DomainSources converts configured feeds into domain values.
func (f FeedsConfig) DomainSources() []domain.FeedSource {
	sources := make([]domain.FeedSource, 0, len(f.Sources))
	for _, src := range f.Sources {
		sources = append(sources, domain.FeedSource{Name: src.Name, URL: src.URL})
	}
	return sources
}

// GeneratorConfig defines how to contact the script-writing model.
type GeneratorConfig struct {
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
	APIKey         string `yaml:"apiKey"`
	BaseURL        string `yaml:"baseUrl"`
	Guidelines     string `yaml:"guidelines"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// SpeakersConfig names the two hosts and their voices.
type SpeakersConfig struct {
	A PersonaConfig `yaml:"a"`
	B PersonaConfig `yaml:"b"`
}

// PersonaConfig describes one host.
type PersonaConfig struct {
	Name  string `yaml:"name"`
	Voice string `yaml:"voice"`
	Role  string `yaml:"role"`
}

// Cast converts the speaker section into the domain pair.
func (s SpeakersConfig) Cast() domain.Cast {
	return domain.Cast{
		A: domain.Persona{Name: s.A.Name, Voice: s.A.Voice, Role: s.A.Role},
		B: domain.Persona{Name: s.B.Name, Voice: s.B.Voice, Role: s.B.Role},
	}
}

// SynthesisConfig selects the speech engine.
type SynthesisConfig struct {
	Provider       string `yaml:"provider"`
	Endpoint       string `yaml:"endpoint"`
	APIKey         string `yaml:"apiKey"`
	Model          string `yaml:"model"`
	Rate           string `yaml:"rate"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// MixerConfig controls background music download and the ffmpeg mix.
type MixerConfig struct {
	Disabled       bool    `yaml:"disabled"`
	BackgroundURL  string  `yaml:"backgroundUrl"`
	CachePath      string  `yaml:"cachePath"`
	FFmpeg         string  `yaml:"ffmpeg"`
	FFprobe        string  `yaml:"ffprobe"`
	TimeoutSeconds int     `yaml:"timeoutSeconds"`
	GainDB         float64 `yaml:"gainDb"`
	LoopMarginMS   int     `yaml:"loopMarginMs"`
	TrimMarginMS   int     `yaml:"trimMarginMs"`
	FadeInMS       int     `yaml:"fadeInMs"`
	FadeOutMS      int     `yaml:"fadeOutMs"`
	SpeechOffsetMS int     `yaml:"speechOffsetMs"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken       string `yaml:"botToken"`
	ChatID         string `yaml:"chatId"`
	APIBaseURL     string `yaml:"apiBaseUrl"`
	CaptionHeader  string `yaml:"captionHeader"`
	AudioTitle     string `yaml:"audioTitle"`
	Performer      string `yaml:"performer"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// PathsConfig holds local filesystem locations.
type PathsConfig struct {
	LockFile string `yaml:"lockFile"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
// An explicit path wins over the TECHBRIEFING_CONFIG variable.
func Load(path string) Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: cannot read .env: %v", err)
	}

	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
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

	if len(cfg.Feeds.Sources) == 0 {
		cfg.Feeds.Sources = defaultConfig().Feeds.Sources
	}

	return cfg
}

// Validate reports settings that make a run impossible.
func (c Config) Validate() error {
	var errs []error

	if c.Speakers.A.Name == "" || c.Speakers.B.Name == "" {
		errs = append(errs, errors.New("speakers: both names are required"))
	}
	if c.Speakers.A.Name == c.Speakers.B.Name {
		errs = append(errs, errors.New("speakers: names must differ"))
	}
	if c.Feeds.PerSourceLimit <= 0 {
		errs = append(errs, errors.New("feeds: perSourceLimit must be positive"))
	}

	switch c.Generator.Provider {
	case ProviderGemini, ProviderOpenAI:
		if c.Generator.APIKey == "" {
			errs = append(errs, fmt.Errorf("generator: api key missing for %s", c.Generator.Provider))
		}
	default:
		errs = append(errs, fmt.Errorf("generator: unknown provider %q", c.Generator.Provider))
	}

	switch c.Synthesis.Provider {
	case ProviderOpenAI:
		if c.Synthesis.APIKey == "" {
			errs = append(errs, errors.New("synthesis: api key missing for openai"))
		}
	case ProviderHTTP:
		if c.Synthesis.Endpoint == "" {
			errs = append(errs, errors.New("synthesis: endpoint required for http engine"))
		}
	default:
		errs = append(errs, fmt.Errorf("synthesis: unknown provider %q", c.Synthesis.Provider))
	}

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("storage: sqlite path required"))
		}
	case DriverPostgres:
		if c.Storage.DSN == "" {
			errs = append(errs, errors.New("storage: postgres dsn required"))
		}
	case DriverRedis:
		if c.Storage.RedisAddr == "" {
			errs = append(errs, errors.New("storage: redis address required"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage: unknown driver %q", c.Storage.Driver))
	}

	if c.Telegram.BotToken == "" || c.Telegram.ChatID == "" {
		errs = append(errs, errors.New("telegram: bot token and chat id are required"))
	}

	return errors.Join(errs...)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(recordSeenEnv); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Storage.RecordSeen = enabled
		} else {
			log.Printf("config: ignoring %s=%q: %v", recordSeenEnv, v, err)
		}
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Storage.DSN = v
	}

	if v := os.Getenv(redisAddrEnv); v != "" {
		c.Storage.RedisAddr = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Telegram.ChatID = v
	}

	if v := os.Getenv(geminiAPIKeyEnv); v != "" && c.Generator.Provider == ProviderGemini {
		c.Generator.APIKey = v
	}

	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		if c.Generator.Provider == ProviderOpenAI {
			c.Generator.APIKey = v
		}
		if c.Synthesis.Provider == ProviderOpenAI && c.Synthesis.APIKey == "" {
			c.Synthesis.APIKey = v
		}
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
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	base.Storage = mergeStorage(base.Storage, override.Storage)

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if len(override.Feeds.Sources) > 0 {
		base.Feeds.Sources = override.Feeds.Sources
	}
	if override.Feeds.PerSourceLimit > 0 {
		base.Feeds.PerSourceLimit = override.Feeds.PerSourceLimit
	}
	if override.Feeds.TimeoutSeconds > 0 {
		base.Feeds.TimeoutSeconds = override.Feeds.TimeoutSeconds
	}
	if override.Feeds.UserAgent != "" {
		base.Feeds.UserAgent = override.Feeds.UserAgent
	}

	if override.Generator.Provider != "" && override.Generator.Provider != base.Generator.Provider {
		// model defaults are provider specific
		base.Generator.Model = ""
		base.Generator.Provider = override.Generator.Provider
	}
	if override.Generator.Model != "" {
		base.Generator.Model = override.Generator.Model
	}
	if base.Generator.Model == "" {
		base.Generator.Model = defaultModel(base.Generator.Provider)
	}
	if override.Generator.APIKey != "" {
		base.Generator.APIKey = override.Generator.APIKey
	}
	if override.Generator.BaseURL != "" {
		base.Generator.BaseURL = override.Generator.BaseURL
	}
	if override.Generator.Guidelines != "" {
		base.Generator.Guidelines = override.Generator.Guidelines
	}
	if override.Generator.TimeoutSeconds > 0 {
		base.Generator.TimeoutSeconds = override.Generator.TimeoutSeconds
	}

	base.Speakers.A = mergePersona(base.Speakers.A, override.Speakers.A)
	base.Speakers.B = mergePersona(base.Speakers.B, override.Speakers.B)

	base.Synthesis = mergeSynthesis(base.Synthesis, override.Synthesis)
	base.Mixer = mergeMixer(base.Mixer, override.Mixer)
	base.Telegram = mergeTelegram(base.Telegram, override.Telegram)

	if override.Paths.LockFile != "" {
		base.Paths.LockFile = override.Paths.LockFile
	}

	return base
}

func mergeStorage(base, override StorageConfig) StorageConfig {
	if override.Driver != "" {
		base.Driver = strings.ToLower(override.Driver)
	}
	if override.Path != "" {
		base.Path = override.Path
	}
	if override.DSN != "" {
		base.DSN = override.DSN
	}
	if override.RedisAddr != "" {
		base.RedisAddr = override.RedisAddr
	}
	if override.RedisKey != "" {
		base.RedisKey = override.RedisKey
	}
	if override.RecordSeen {
		base.RecordSeen = true
	}
	return base
}

func mergePersona(base, override PersonaConfig) PersonaConfig {
	if override.Name != "" {
		base.Name = override.Name
	}
	if override.Voice != "" {
		base.Voice = override.Voice
	}
	if override.Role != "" {
		base.Role = override.Role
	}
	return base
}

func mergeSynthesis(base, override SynthesisConfig) SynthesisConfig {
	if override.Provider != "" {
		base.Provider = override.Provider
	}
	if override.Endpoint != "" {
		base.Endpoint = override.Endpoint
	}
	if override.APIKey != "" {
		base.APIKey = override.APIKey
	}
	if override.Model != "" {
		base.Model = override.Model
	}
	if override.Rate != "" {
		base.Rate = override.Rate
	}
	if override.TimeoutSeconds > 0 {
		base.TimeoutSeconds = override.TimeoutSeconds
	}
	return base
}

func mergeMixer(base, override MixerConfig) MixerConfig {
	if override.BackgroundURL != "" {
		base.BackgroundURL = override.BackgroundURL
	}
	if override.CachePath != "" {
		base.CachePath = override.CachePath
	}
	if override.FFmpeg != "" {
		base.FFmpeg = override.FFmpeg
	}
	if override.FFprobe != "" {
		base.FFprobe = override.FFprobe
	}
	if override.TimeoutSeconds > 0 {
		base.TimeoutSeconds = override.TimeoutSeconds
	}
	if override.GainDB != 0 {
		base.GainDB = override.GainDB
	}
	if override.LoopMarginMS > 0 {
		base.LoopMarginMS = override.LoopMarginMS
	}
	if override.TrimMarginMS > 0 {
		base.TrimMarginMS = override.TrimMarginMS
	}
	if override.FadeInMS > 0 {
		base.FadeInMS = override.FadeInMS
	}
	if override.FadeOutMS > 0 {
		base.FadeOutMS = override.FadeOutMS
	}
	if override.SpeechOffsetMS > 0 {
		base.SpeechOffsetMS = override.SpeechOffsetMS
	}
	if override.Disabled {
		base.Disabled = true
	}
	return base
}

func mergeTelegram(base, override TelegramConfig) TelegramConfig {
	if override.BotToken != "" {
		base.BotToken = override.BotToken
	}
	if override.ChatID != "" {
		base.ChatID = override.ChatID
	}
	if override.APIBaseURL != "" {
		base.APIBaseURL = override.APIBaseURL
	}
	if override.CaptionHeader != "" {
		base.CaptionHeader = override.CaptionHeader
	}
	if override.AudioTitle != "" {
		base.AudioTitle = override.AudioTitle
	}
	if override.Performer != "" {
		base.Performer = override.Performer
	}
	if override.TimeoutSeconds > 0 {
		base.TimeoutSeconds = override.TimeoutSeconds
	}
	return base
}

func defaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	default:
		return "gemini-2.5-flash"
	}
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Storage: StorageConfig{
			Driver:   DriverSQLite,
			Path:     "seen_items.db",
			RedisKey: "techbriefing:seen",
		},
		Scheduler: SchedulerConfig{CronExpression: "0 8 * * *", Timezone: defaultTimezone, location: tz},
		Feeds: FeedsConfig{
			Sources: []FeedSourceConfig{
				{Name: "OpenAI", URL: "https://openai.com/news/rss.xml"},
				{Name: "TechCrunch", URL: "https://techcrunch.com/category/artificial-intelligence/feed/"},
				{Name: "Google", URL: "http://googleaiblog.blogspot.com/atom.xml"},
			},
			PerSourceLimit: 2,
			TimeoutSeconds: 20,
			UserAgent:      "TechBriefing/1.0",
		},
		Generator: GeneratorConfig{
			Provider:       ProviderGemini,
			Model:          defaultModel(ProviderGemini),
			Guidelines:     "Corporate tone, direct, no slang.",
			TimeoutSeconds: 120,
		},
		Speakers: SpeakersConfig{
			A: PersonaConfig{Name: "Ana", Voice: "nova", Role: "senior analyst"},
			B: PersonaConfig{Name: "Carlos", Voice: "onyx", Role: "innovator"},
		},
		Synthesis: SynthesisConfig{
			Provider:       ProviderOpenAI,
			Model:          "gpt-4o-mini-tts",
			Rate:           "+5%",
			TimeoutSeconds: 60,
		},
		Mixer: MixerConfig{
			BackgroundURL:  "https://files.freemusicarchive.org/storage-freemusicarchive-org/music/no_curator/Kevin_MacLeod/Jazz_Sampler/Kevin_MacLeod_-_AcidJazz.mp3",
			CachePath:      "background.mp3",
			FFmpeg:         "ffmpeg",
			FFprobe:        "ffprobe",
			TimeoutSeconds: 60,
			GainDB:         -22,
			LoopMarginMS:   5000,
			TrimMarginMS:   2000,
			FadeInMS:       2000,
			FadeOutMS:      2000,
			SpeechOffsetMS: 1000,
		},
		Telegram: TelegramConfig{
			APIBaseURL:     "https://api.telegram.org",
			CaptionHeader:  "TECH UPDATE",
			AudioTitle:     "Tech Briefing",
			Performer:      "Ana & Carlos",
			TimeoutSeconds: 60,
		},
		Paths: PathsConfig{LockFile: "techbriefing.lock"},
	}
}
