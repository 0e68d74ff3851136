//go:build wireinject
// +build wireinject

// Package main 为字幕事件发布任务提供 Wire 依赖注入定义。
package main

import (
	"context"
	"fmt"

	configloader "github.com/bionicotaku/lingo-services-captions/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-captions/internal/repositories"
	outboxtasks "github.com/bionicotaku/lingo-services-captions/internal/tasks/outbox"

	"github.com/bionicotaku/lingo-utils/gclog"
	"github.com/bionicotaku/lingo-utils/gcpubsub"
	obswire "github.com/bionicotaku/lingo-utils/observability"
	outboxpublisher "github.com/bionicotaku/lingo-utils/outbox/publisher"
	"github.com/bionicotaku/lingo-utils/pgxpoolx"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

//go:generate go run github.com/google/wire/cmd/wire

func wireCaptionEventsTask(context.Context, configloader.Params) (*captionEventsApp, func(), error) {
	panic(wire.Build(
		configloader.ProviderSet,
		gclog.ProviderSet,
		obswire.ProviderSet,
		pgxpoolx.ProviderSet,
		gcpubsub.ProviderSet,
		repositories.NewOutboxRepository,
		outboxtasks.ProvideRunner,
		newCaptionEventsApp,
	))
}

func newCaptionEventsApp(_ *obswire.Component, logger log.Logger, events *repositories.OutboxRepository, publisher *outboxpublisher.Runner) (*captionEventsApp, error) {
	if events == nil {
		return nil, fmt.Errorf("caption outbox repository not initialized")
	}
	app := &captionEventsApp{Events: events, Logger: logger}
	if publisher != nil {
		app.Task = publisher
	}
	return app, nil
}
