//go:build wireinject
// +build wireinject

// Package main 为账号事件 Inbox 任务提供 Wire 依赖注入定义。
package main

import (
	"context"
	"fmt"

	configloader "github.com/bionicotaku/lingo-services-captions/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-captions/internal/repositories"
	"github.com/bionicotaku/lingo-services-captions/internal/tasks/accounts"

	"github.com/bionicotaku/lingo-utils/gclog"
	"github.com/bionicotaku/lingo-utils/gcpubsub"
	obswire "github.com/bionicotaku/lingo-utils/observability"
	"github.com/bionicotaku/lingo-utils/pgxpoolx"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

//go:generate go run github.com/google/wire/cmd/wire

var accountsRepoSet = wire.NewSet(
	repositories.NewInboxRepository,
	repositories.NewCaptionerRepository,
	repositories.NewCaptionerPrivateRepository,
)

func wireAccountsTask(context.Context, configloader.Params) (*accountsApp, func(), error) {
	panic(wire.Build(
		configloader.ProviderSet,
		configloader.ProvideAccountsSubscriber,
		gclog.ProviderSet,
		obswire.ProviderSet,
		pgxpoolx.ProviderSet,
		txmanager.ProviderSet,
		accountsRepoSet,
		accountsSubscriber,
		accounts.ProvideTask,
		newAccountsApp,
	))
}

// accountsSubscriber 使用 messaging.accounts 的订阅，而不是字幕事件 topic。
func accountsSubscriber(sub configloader.AccountsSubscriber) gcpubsub.Subscriber {
	return sub
}

func newAccountsApp(_ *obswire.Component, logger log.Logger, task *accounts.Task) (*accountsApp, error) {
	if task == nil {
		return &accountsApp{Logger: logger}, nil
	}
	if logger == nil {
		return nil, fmt.Errorf("logger not initialized")
	}
	return &accountsApp{Task: task, Logger: logger}, nil
}
