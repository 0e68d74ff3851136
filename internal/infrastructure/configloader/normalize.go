package configloader

import (
	"time"
)

const (
	defaultHandlerTimeout = 5 * time.Second
	defaultQueryTimeout   = 3 * time.Second

	defaultHTTPAddr = ":8080"
	defaultGRPCAddr = ":9090"
	defaultSchema   = "captions"

	defaultMaxCaptionBytes         = 2 << 20
	defaultMaxVerifiedCaptionBytes = 4 << 20
	defaultSubmissionCooldown      = 5 * time.Minute
	defaultMaxTagCount             = 20
	defaultMaxTagNameLength        = 30
	defaultMaxVideoTitleLength     = 250
	defaultMaxSearchTags           = 5
	defaultMigrationBatchSize      = 100
	defaultTagCountRate            = 5
	defaultTagCountInterval        = 400 * time.Millisecond

	defaultSignedURLTTL  = 15 * time.Minute
	defaultObjectPrefix  = "raw_captions"
	defaultFlagTTL       = 30 * time.Second
	defaultStatsSchedule = "0 */15 * * * *"
	defaultStatsTTL      = time.Hour

	defaultOEmbedEndpoint    = "https://noembed.com/embed"
	defaultTimedTextEndpoint = "https://video.google.com/timedtext"
	defaultClientTimeout     = 5 * time.Second
	defaultClientRetries     = 2
	defaultClientBackoff     = 200 * time.Millisecond
	defaultBreakerTimeout    = 30 * time.Second
	defaultBreakerThreshold  = 5
)

func fromBootstrap(b *Bootstrap) RuntimeConfig {
	if b == nil {
		return RuntimeConfig{}
	}
	rc := RuntimeConfig{
		Server:        serverFromBootstrap(b.Server),
		Storage:       storageFromBootstrap(b.Storage),
		Clients:       clientsFromBootstrap(b.Clients),
		Limits:        limitsFromBootstrap(b.Limits),
		Stats:         statsFromBootstrap(b.Stats),
		Observability: observabilityFromBootstrap(b.Observability),
	}
	if b.Data != nil {
		rc.Database = databaseFromBootstrap(b.Data.Postgres)
		rc.Redis = redisFromBootstrap(b.Data.Redis)
	}
	rc.Messaging = messagingFromBootstrap(b.Messaging, rc.Database.Schema)
	return rc
}

func serverFromBootstrap(s *ServerSection) ServerConfig {
	if s == nil {
		return ServerConfig{}
	}
	server := ServerConfig{
		HTTP:         listenerFromBootstrap(s.HTTP),
		GRPC:         listenerFromBootstrap(s.GRPC),
		RateLimit:    s.RateLimit,
		MetadataKeys: append([]string(nil), s.MetadataKeys...),
	}
	if jwt := s.JWT; jwt != nil {
		server.JWT = ServerJWTConfig{
			ExpectedAudience: jwt.ExpectedAudience,
			SkipValidate:     jwt.SkipValidate,
			Required:         jwt.Required,
			HeaderKey:        firstNonEmpty(jwt.HeaderKey, "authorization"),
		}
	}
	server.Handlers = handlerTimeoutFromBootstrap(s.Handlers)
	return server
}

func listenerFromBootstrap(l *ListenerSection) ListenerConfig {
	if l == nil {
		return ListenerConfig{}
	}
	return ListenerConfig{
		Network: l.Network,
		Address: l.Addr,
		Timeout: l.Timeout.Std(),
	}
}

func handlerTimeoutFromBootstrap(h *HandlersSection) HandlerTimeoutConfig {
	cfg := HandlerTimeoutConfig{
		Default: defaultHandlerTimeout,
		Command: defaultHandlerTimeout,
		Query:   defaultQueryTimeout,
	}
	if h == nil {
		return cfg
	}
	if d := h.DefaultTimeout.Std(); d > 0 {
		cfg.Default = d
	}
	if d := h.CommandTimeout.Std(); d > 0 {
		cfg.Command = d
	} else {
		cfg.Command = cfg.Default
	}
	if d := h.QueryTimeout.Std(); d > 0 {
		cfg.Query = d
	} else {
		cfg.Query = firstNonZero(cfg.Query, cfg.Default)
	}
	return cfg
}

func databaseFromBootstrap(pg *PostgresSection) DatabaseConfig {
	if pg == nil {
		return DatabaseConfig{}
	}
	cfg := DatabaseConfig{
		DSN:               pg.DSN,
		MaxOpenConns:      pg.MaxOpenConns,
		MinOpenConns:      pg.MinOpenConns,
		MaxConnLifetime:   pg.MaxConnLifetime.Std(),
		MaxConnIdleTime:   pg.MaxConnIdleTime.Std(),
		HealthCheckPeriod: pg.HealthCheckPeriod.Std(),
		Schema:            pg.Schema,
		PreparedStmts:     pg.PreparedStatementsEnabled,
		PoolMetrics:       pg.PoolMetricsEnabled,
	}
	if tx := pg.Transaction; tx != nil {
		cfg.Transaction = TransactionConfig{
			DefaultIsolation: tx.DefaultIsolation,
			DefaultTimeout:   tx.DefaultTimeout.Std(),
			LockTimeout:      tx.LockTimeout.Std(),
			MaxRetries:       tx.MaxRetries,
			MetricsEnabled:   tx.MetricsEnabled,
		}
	}
	return cfg
}

func redisFromBootstrap(r *RedisSection) RedisConfig {
	if r == nil {
		return RedisConfig{}
	}
	return RedisConfig{
		Addr:         r.Addr,
		Password:     r.Password,
		DB:           r.DB,
		DialTimeout:  r.DialTimeout.Std(),
		ReadTimeout:  r.ReadTimeout.Std(),
		WriteTimeout: r.WriteTimeout.Std(),
		KeyPrefix:    r.KeyPrefix,
		FlagTTL:      r.FlagTTL.Std(),
	}
}

func storageFromBootstrap(s *StorageSection) StorageConfig {
	if s == nil {
		return StorageConfig{}
	}
	return StorageConfig{
		Bucket:               s.Bucket,
		ObjectPrefix:         s.ObjectPrefix,
		SignerServiceAccount: s.SignerServiceAccount,
		SignedURLTTL:         s.SignedURLTTL.Std(),
	}
}

func clientsFromBootstrap(c *ClientsSection) ClientsConfig {
	if c == nil {
		return ClientsConfig{}
	}
	return ClientsConfig{
		OEmbed:    httpClientFromBootstrap(c.OEmbed),
		TimedText: httpClientFromBootstrap(c.TimedText),
	}
}

func httpClientFromBootstrap(h *HTTPClientSection) HTTPClientConfig {
	if h == nil {
		return HTTPClientConfig{}
	}
	return HTTPClientConfig{
		Endpoint:         h.Endpoint,
		Timeout:          h.Timeout.Std(),
		MaxRetries:       h.MaxRetries,
		InitialBackoff:   h.InitialBackoff.Std(),
		BreakerTimeout:   h.BreakerTimeout.Std(),
		BreakerThreshold: h.BreakerThreshold,
	}
}

func limitsFromBootstrap(l *LimitsSection) LimitsConfig {
	if l == nil {
		return LimitsConfig{}
	}
	return LimitsConfig{
		MaxCaptionBytes:         l.MaxCaptionBytes,
		MaxVerifiedCaptionBytes: l.MaxVerifiedCaptionBytes,
		SubmissionCooldown:      l.SubmissionCooldown.Std(),
		MaxTagCount:             l.MaxTagCount,
		MaxTagNameLength:        l.MaxTagNameLength,
		MaxVideoTitleLength:     l.MaxVideoTitleLength,
		MaxSearchTags:           l.MaxSearchTags,
		MigrationBatchSize:      l.MigrationBatchSize,
		TagCountRate:            l.TagCountRate,
		TagCountInterval:        l.TagCountInterval.Std(),
	}
}

func statsFromBootstrap(s *StatsSection) StatsConfig {
	if s == nil {
		return StatsConfig{}
	}
	return StatsConfig{
		Enabled:  s.Enabled,
		Schedule: s.Schedule,
		CacheTTL: s.CacheTTL.Std(),
	}
}

func observabilityFromBootstrap(obs *ObservabilitySection) ObservabilityConfig {
	if obs == nil {
		return ObservabilityConfig{}
	}
	cfg := ObservabilityConfig{GlobalAttributes: mapCopy(obs.GlobalAttributes)}
	if t := obs.Tracing; t != nil {
		cfg.Tracing = TracingConfig{
			Enabled:            t.Enabled,
			Exporter:           t.Exporter,
			Endpoint:           t.Endpoint,
			Headers:            mapCopy(t.Headers),
			Insecure:           t.Insecure,
			SamplingRatio:      t.SamplingRatio,
			BatchTimeout:       t.BatchTimeout.Std(),
			ExportTimeout:      t.ExportTimeout.Std(),
			MaxQueueSize:       t.MaxQueueSize,
			MaxExportBatchSize: t.MaxExportBatchSize,
			Required:           t.Required,
			Attributes:         mapCopy(t.Attributes),
		}
	}
	if m := obs.Metrics; m != nil {
		cfg.Metrics = MetricsConfig{
			Enabled:             m.Enabled,
			Exporter:            m.Exporter,
			Endpoint:            m.Endpoint,
			Headers:             mapCopy(m.Headers),
			Insecure:            m.Insecure,
			Interval:            m.Interval.Std(),
			DisableRuntimeStats: m.DisableRuntimeStats,
			Required:            m.Required,
			ResourceAttributes:  mapCopy(m.ResourceAttributes),
			GRPCEnabled:         m.GRPCEnabled,
			GRPCIncludeHealth:   m.GRPCIncludeHealth,
		}
	}
	return cfg
}

func messagingFromBootstrap(msg *MessagingSection, schema string) MessagingConfig {
	cfg := MessagingConfig{Schema: schema}
	if msg == nil {
		return cfg
	}
	cfg.Events = pubsubFromBootstrap(msg.Events)
	cfg.Accounts = pubsubFromBootstrap(msg.Accounts)
	if ob := msg.Outbox; ob != nil {
		cfg.Outbox = OutboxPublisherConfig{
			BatchSize:      ob.BatchSize,
			TickInterval:   ob.TickInterval.Std(),
			InitialBackoff: ob.InitialBackoff.Std(),
			MaxBackoff:     ob.MaxBackoff.Std(),
			MaxAttempts:    ob.MaxAttempts,
			PublishTimeout: ob.PublishTimeout.Std(),
			Workers:        ob.Workers,
			LockTTL:        ob.LockTTL.Std(),
			LoggingEnabled: ob.LoggingEnabled,
			MetricsEnabled: ob.MetricsEnabled,
		}
	}
	if in := msg.Inbox; in != nil {
		cfg.Inbox = InboxConfig{
			SourceService:  in.SourceService,
			MaxConcurrency: in.MaxConcurrency,
			LoggingEnabled: in.LoggingEnabled,
			MetricsEnabled: in.MetricsEnabled,
		}
	}
	return cfg
}

func pubsubFromBootstrap(pb *PubSubSection) PubSubConfig {
	if pb == nil {
		return PubSubConfig{}
	}
	cfg := PubSubConfig{
		ProjectID:           pb.ProjectID,
		TopicID:             pb.TopicID,
		SubscriptionID:      pb.SubscriptionID,
		OrderingKeyEnabled:  pb.OrderingKeyEnabled,
		LoggingEnabled:      pb.LoggingEnabled,
		MetricsEnabled:      pb.MetricsEnabled,
		EmulatorEndpoint:    pb.EmulatorEndpoint,
		PublishTimeout:      pb.PublishTimeout.Std(),
		ExactlyOnceDelivery: pb.ExactlyOnceDelivery,
		DeadLetterTopicID:   pb.DeadLetterTopicID,
	}
	if r := pb.Receive; r != nil {
		cfg.Receive = PubSubReceiveConfig{
			NumGoroutines:          r.NumGoroutines,
			MaxOutstandingMessages: r.MaxOutstandingMessages,
			MaxOutstandingBytes:    r.MaxOutstandingBytes,
			MaxExtension:           r.MaxExtension.Std(),
			MaxExtensionPeriod:     r.MaxExtensionPeriod.Std(),
		}
	}
	return cfg
}

func mapCopy(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func firstNonZero(durations ...time.Duration) time.Duration {
	for _, d := range durations {
		if d > 0 {
			return d
		}
	}
	return 0
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func fillDefaults(cfg *RuntimeConfig) {
	if cfg.Server.JWT.HeaderKey == "" {
		cfg.Server.JWT.HeaderKey = "authorization"
	}
	if cfg.Server.HTTP.Address == "" {
		cfg.Server.HTTP.Address = defaultHTTPAddr
	}
	if cfg.Server.GRPC.Address == "" {
		cfg.Server.GRPC.Address = defaultGRPCAddr
	}
	if cfg.Server.Handlers.Default == 0 {
		cfg.Server.Handlers = handlerTimeoutFromBootstrap(nil)
	}
	if len(cfg.Server.MetadataKeys) == 0 {
		cfg.Server.MetadataKeys = []string{
			"x-apigateway-api-userinfo",
			"x-session-token",
			"x-md-",
		}
	}
	if cfg.Database.Schema == "" {
		cfg.Database.Schema = defaultSchema
	}
	if cfg.Messaging.Schema == "" {
		cfg.Messaging.Schema = cfg.Database.Schema
	}

	l := &cfg.Limits
	l.MaxCaptionBytes = firstPositive(l.MaxCaptionBytes, defaultMaxCaptionBytes)
	l.MaxVerifiedCaptionBytes = firstPositive(l.MaxVerifiedCaptionBytes, defaultMaxVerifiedCaptionBytes)
	l.SubmissionCooldown = firstNonZero(l.SubmissionCooldown, defaultSubmissionCooldown)
	l.MaxTagCount = firstPositive(l.MaxTagCount, defaultMaxTagCount)
	l.MaxTagNameLength = firstPositive(l.MaxTagNameLength, defaultMaxTagNameLength)
	l.MaxVideoTitleLength = firstPositive(l.MaxVideoTitleLength, defaultMaxVideoTitleLength)
	l.MaxSearchTags = firstPositive(l.MaxSearchTags, defaultMaxSearchTags)
	l.MigrationBatchSize = firstPositive(l.MigrationBatchSize, defaultMigrationBatchSize)
	l.TagCountRate = firstPositive(l.TagCountRate, defaultTagCountRate)
	l.TagCountInterval = firstNonZero(l.TagCountInterval, defaultTagCountInterval)

	s := &cfg.Storage
	s.ObjectPrefix = firstNonEmpty(s.ObjectPrefix, defaultObjectPrefix)
	s.SignedURLTTL = firstNonZero(s.SignedURLTTL, defaultSignedURLTTL)

	cfg.Redis.FlagTTL = firstNonZero(cfg.Redis.FlagTTL, defaultFlagTTL)
	cfg.Stats.Schedule = firstNonEmpty(cfg.Stats.Schedule, defaultStatsSchedule)
	cfg.Stats.CacheTTL = firstNonZero(cfg.Stats.CacheTTL, defaultStatsTTL)

	fillClientDefaults(&cfg.Clients.OEmbed, defaultOEmbedEndpoint)
	fillClientDefaults(&cfg.Clients.TimedText, defaultTimedTextEndpoint)
}

func fillClientDefaults(c *HTTPClientConfig, endpoint string) {
	c.Endpoint = firstNonEmpty(c.Endpoint, endpoint)
	c.Timeout = firstNonZero(c.Timeout, defaultClientTimeout)
	if c.MaxRetries == 0 {
		c.MaxRetries = defaultClientRetries
	}
	c.InitialBackoff = firstNonZero(c.InitialBackoff, defaultClientBackoff)
	c.BreakerTimeout = firstNonZero(c.BreakerTimeout, defaultBreakerTimeout)
	c.BreakerThreshold = firstPositive(c.BreakerThreshold, defaultBreakerThreshold)
}
