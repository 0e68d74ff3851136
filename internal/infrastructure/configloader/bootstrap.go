package configloader

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration 允许在 YAML 中以 "5s"、"250ms" 形式书写时长。
type Duration time.Duration

// UnmarshalJSON 同时接受字符串与纳秒整数。
func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*d = 0
	case float64:
		*d = Duration(time.Duration(v))
	case string:
		if v == "" {
			*d = 0
			return nil
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration: %s", string(data))
	}
	return nil
}

// Std 转换为 time.Duration。
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Bootstrap 对应 configs/config.yaml 的结构。
type Bootstrap struct {
	Server        *ServerSection        `json:"server" validate:"required"`
	Data          *DataSection          `json:"data" validate:"required"`
	Storage       *StorageSection       `json:"storage"`
	Clients       *ClientsSection       `json:"clients"`
	Limits        *LimitsSection        `json:"limits"`
	Stats         *StatsSection         `json:"stats"`
	Observability *ObservabilitySection `json:"observability"`
	Messaging     *MessagingSection     `json:"messaging"`
}

// ServerSection 描述 server 段。
type ServerSection struct {
	HTTP         *ListenerSection `json:"http" validate:"required"`
	GRPC         *ListenerSection `json:"grpc"`
	JWT          *JWTSection      `json:"jwt"`
	Handlers     *HandlersSection `json:"handlers"`
	RateLimit    bool             `json:"rate_limit"`
	MetadataKeys []string         `json:"metadata_keys"`
}

// ListenerSection 描述监听地址。
type ListenerSection struct {
	Network string   `json:"network" validate:"omitempty,oneof=tcp tcp4 tcp6 unix"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout" validate:"gte=0"`
}

// JWTSection 描述入站 JWT 校验。
type JWTSection struct {
	ExpectedAudience string `json:"expected_audience"`
	SkipValidate     bool   `json:"skip_validate"`
	Required         bool   `json:"required"`
	HeaderKey        string `json:"header_key"`
}

// HandlersSection 描述 Handler 超时。
type HandlersSection struct {
	DefaultTimeout Duration `json:"default_timeout" validate:"gte=0"`
	CommandTimeout Duration `json:"command_timeout" validate:"gte=0"`
	QueryTimeout   Duration `json:"query_timeout" validate:"gte=0"`
}

// DataSection 描述 data 段。
type DataSection struct {
	Postgres *PostgresSection `json:"postgres" validate:"required"`
	Redis    *RedisSection    `json:"redis"`
}

// PostgresSection 描述 PostgreSQL 连接。
type PostgresSection struct {
	DSN                       string              `json:"dsn" validate:"required"`
	MaxOpenConns              int                 `json:"max_open_conns" validate:"gte=0"`
	MinOpenConns              int                 `json:"min_open_conns" validate:"gte=0"`
	MaxConnLifetime           Duration            `json:"max_conn_lifetime"`
	MaxConnIdleTime           Duration            `json:"max_conn_idle_time"`
	HealthCheckPeriod         Duration            `json:"health_check_period"`
	Schema                    string              `json:"schema"`
	PreparedStatementsEnabled bool                `json:"prepared_statements_enabled"`
	PoolMetricsEnabled        bool                `json:"pool_metrics_enabled"`
	Transaction               *TransactionSection `json:"transaction"`
}

// TransactionSection 描述事务默认值。
type TransactionSection struct {
	DefaultIsolation string   `json:"default_isolation" validate:"omitempty,oneof=read_committed repeatable_read serializable"`
	DefaultTimeout   Duration `json:"default_timeout"`
	LockTimeout      Duration `json:"lock_timeout"`
	MaxRetries       int      `json:"max_retries" validate:"gte=0"`
	MetricsEnabled   bool     `json:"metrics_enabled"`
}

// RedisSection 描述缓存连接。
type RedisSection struct {
	Addr         string   `json:"addr"`
	Password     string   `json:"password"`
	DB           int      `json:"db" validate:"gte=0,lte=15"`
	DialTimeout  Duration `json:"dial_timeout"`
	ReadTimeout  Duration `json:"read_timeout"`
	WriteTimeout Duration `json:"write_timeout"`
	KeyPrefix    string   `json:"key_prefix"`
	FlagTTL      Duration `json:"flag_ttl"`
}

// StorageSection 描述 GCS 存储。
type StorageSection struct {
	Bucket               string   `json:"bucket"`
	ObjectPrefix         string   `json:"object_prefix"`
	SignerServiceAccount string   `json:"signer_service_account" validate:"omitempty,email"`
	SignedURLTTL         Duration `json:"signed_url_ttl"`
}

// ClientsSection 描述出站 HTTP 依赖。
type ClientsSection struct {
	OEmbed    *HTTPClientSection `json:"oembed"`
	TimedText *HTTPClientSection `json:"timedtext"`
}

// HTTPClientSection 描述单个 HTTP 依赖。
type HTTPClientSection struct {
	Endpoint         string   `json:"endpoint" validate:"omitempty,url"`
	Timeout          Duration `json:"timeout"`
	MaxRetries       int      `json:"max_retries" validate:"gte=0,lte=10"`
	InitialBackoff   Duration `json:"initial_backoff"`
	BreakerTimeout   Duration `json:"breaker_timeout"`
	BreakerThreshold int      `json:"breaker_threshold" validate:"gte=0"`
}

// LimitsSection 描述业务限制。
type LimitsSection struct {
	MaxCaptionBytes         int      `json:"max_caption_bytes" validate:"gte=0"`
	MaxVerifiedCaptionBytes int      `json:"max_verified_caption_bytes" validate:"gte=0"`
	SubmissionCooldown      Duration `json:"submission_cooldown"`
	MaxTagCount             int      `json:"max_tag_count" validate:"gte=0"`
	MaxTagNameLength        int      `json:"max_tag_name_length" validate:"gte=0"`
	MaxVideoTitleLength     int      `json:"max_video_title_length" validate:"gte=0"`
	MaxSearchTags           int      `json:"max_search_tags" validate:"gte=0"`
	MigrationBatchSize      int      `json:"migration_batch_size" validate:"gte=0"`
	TagCountRate            int      `json:"tag_count_rate" validate:"gte=0"`
	TagCountInterval        Duration `json:"tag_count_interval"`
}

// StatsSection 描述 globalStats 定时任务。
type StatsSection struct {
	Enabled  bool     `json:"enabled"`
	Schedule string   `json:"schedule"`
	CacheTTL Duration `json:"cache_ttl"`
}

// ObservabilitySection 描述 observability 段。
type ObservabilitySection struct {
	GlobalAttributes map[string]string `json:"global_attributes"`
	Tracing          *TracingSection   `json:"tracing"`
	Metrics          *MetricsSection   `json:"metrics"`
}

// TracingSection 描述追踪导出。
type TracingSection struct {
	Enabled            bool              `json:"enabled"`
	Exporter           string            `json:"exporter" validate:"omitempty,oneof=otlp_grpc otlp_http stdout"`
	Endpoint           string            `json:"endpoint"`
	Headers            map[string]string `json:"headers"`
	Insecure           bool              `json:"insecure"`
	SamplingRatio      float64           `json:"sampling_ratio" validate:"gte=0,lte=1"`
	BatchTimeout       Duration          `json:"batch_timeout"`
	ExportTimeout      Duration          `json:"export_timeout"`
	MaxQueueSize       int               `json:"max_queue_size"`
	MaxExportBatchSize int               `json:"max_export_batch_size"`
	Required           bool              `json:"required"`
	Attributes         map[string]string `json:"attributes"`
}

// MetricsSection 描述指标导出。
type MetricsSection struct {
	Enabled             bool              `json:"enabled"`
	Exporter            string            `json:"exporter" validate:"omitempty,oneof=otlp_grpc otlp_http stdout"`
	Endpoint            string            `json:"endpoint"`
	Headers             map[string]string `json:"headers"`
	Insecure            bool              `json:"insecure"`
	Interval            Duration          `json:"interval"`
	DisableRuntimeStats bool              `json:"disable_runtime_stats"`
	Required            bool              `json:"required"`
	ResourceAttributes  map[string]string `json:"resource_attributes"`
	GRPCEnabled         bool              `json:"grpc_enabled"`
	GRPCIncludeHealth   bool              `json:"grpc_include_health"`
}

// MessagingSection 描述消息配置。
type MessagingSection struct {
	Events   *PubSubSection `json:"events"`
	Accounts *PubSubSection `json:"accounts"`
	Outbox   *OutboxSection `json:"outbox"`
	Inbox    *InboxSection  `json:"inbox"`
}

// PubSubSection 描述单个 Topic/Subscription。
type PubSubSection struct {
	ProjectID           string          `json:"project_id"`
	TopicID             string          `json:"topic_id"`
	SubscriptionID      string          `json:"subscription_id"`
	OrderingKeyEnabled  bool            `json:"ordering_key_enabled"`
	LoggingEnabled      bool            `json:"logging_enabled"`
	MetricsEnabled      bool            `json:"metrics_enabled"`
	EmulatorEndpoint    string          `json:"emulator_endpoint"`
	PublishTimeout      Duration        `json:"publish_timeout"`
	ExactlyOnceDelivery bool            `json:"exactly_once_delivery"`
	DeadLetterTopicID   string          `json:"dead_letter_topic_id"`
	Receive             *ReceiveSection `json:"receive"`
}

// ReceiveSection 描述订阅者拉取参数。
type ReceiveSection struct {
	NumGoroutines          int      `json:"num_goroutines" validate:"gte=0"`
	MaxOutstandingMessages int      `json:"max_outstanding_messages" validate:"gte=0"`
	MaxOutstandingBytes    int      `json:"max_outstanding_bytes" validate:"gte=0"`
	MaxExtension           Duration `json:"max_extension"`
	MaxExtensionPeriod     Duration `json:"max_extension_period"`
}

// OutboxSection 描述 Outbox 发布器。
type OutboxSection struct {
	BatchSize      int      `json:"batch_size" validate:"gte=0"`
	TickInterval   Duration `json:"tick_interval"`
	InitialBackoff Duration `json:"initial_backoff"`
	MaxBackoff     Duration `json:"max_backoff"`
	MaxAttempts    int      `json:"max_attempts" validate:"gte=0"`
	PublishTimeout Duration `json:"publish_timeout"`
	Workers        int      `json:"workers" validate:"gte=0"`
	LockTTL        Duration `json:"lock_ttl"`
	LoggingEnabled *bool    `json:"logging_enabled"`
	MetricsEnabled *bool    `json:"metrics_enabled"`
}

// InboxSection 描述 Inbox 消费者。
type InboxSection struct {
	SourceService  string `json:"source_service"`
	MaxConcurrency int    `json:"max_concurrency" validate:"gte=0"`
	LoggingEnabled *bool  `json:"logging_enabled"`
	MetricsEnabled *bool  `json:"metrics_enabled"`
}
