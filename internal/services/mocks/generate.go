package mocks

//go:generate go run github.com/golang/mock/mockgen -destination=mock_outbox_enqueuer.go -package=mocks github.com/bionicotaku/lingo-services-captions/internal/services OutboxEnqueuer
//go:generate go run github.com/golang/mock/mockgen -destination=mock_role_store.go -package=mocks github.com/bionicotaku/lingo-services-captions/internal/services RoleStore
//go:generate go run github.com/golang/mock/mockgen -destination=mock_app_config_store.go -package=mocks github.com/bionicotaku/lingo-services-captions/internal/services AppConfigStore
//go:generate go run github.com/golang/mock/mockgen -destination=mock_raw_file_store.go -package=mocks github.com/bionicotaku/lingo-services-captions/internal/services RawFileStore
//go:generate go run github.com/golang/mock/mockgen -destination=mock_title_fetcher.go -package=mocks github.com/bionicotaku/lingo-services-captions/internal/services TitleFetcher
//go:generate go run github.com/golang/mock/mockgen -destination=mock_track_lister.go -package=mocks github.com/bionicotaku/lingo-services-captions/internal/services TrackLister
//go:generate go run github.com/golang/mock/mockgen -destination=mock_stats_store.go -package=mocks github.com/bionicotaku/lingo-services-captions/internal/services StatsStore
