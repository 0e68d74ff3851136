// Package main 提供字幕事件发布器的独立入口：轮询 captions.outbox_events 并推送到
// 字幕事件 Topic；-backlog 仅输出待发布积压后退出，供运维巡检使用。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	configloader "github.com/bionicotaku/lingo-services-captions/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-captions/internal/repositories"

	"github.com/go-kratos/kratos/v2/log"

	_ "go.uber.org/automaxprocs"
)

const backlogTimeout = 10 * time.Second

type captionEventsApp struct {
	Events *repositories.OutboxRepository
	Task   runner
	Logger log.Logger
}

type runner interface {
	Run(ctx context.Context) error
}

func main() {
	ctx := context.Background()

	confFlag := flag.String("conf", "", "config path or directory, eg: -conf configs/config.yaml")
	backlogOnly := flag.Bool("backlog", false, "print pending caption events and exit")
	flag.Parse()

	app, cleanup, err := wireCaptionEventsTask(ctx, configloader.Params{ConfPath: *confFlag})
	if err != nil {
		panic(err)
	}
	defer cleanup()

	logger := app.Logger
	if logger == nil {
		logger = log.NewStdLogger(os.Stdout)
	}
	helper := log.NewHelper(logger)

	pending, err := app.pendingEvents(ctx)
	if err != nil {
		helper.Errorf("count pending caption events: %v", err)
		if *backlogOnly {
			os.Exit(1)
		}
	}
	if *backlogOnly {
		fmt.Fprintf(os.Stdout, "%s.outbox_events pending=%d\n", app.Events.Schema(), pending)
		return
	}

	if app.Task == nil {
		helper.Warnf("caption events publisher disabled (missing messaging.events configuration), pending=%d", pending)
		return
	}

	helper.Infof("starting caption events publisher: schema=%s pending=%d", app.Events.Schema(), pending)

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Task.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		helper.Errorf("caption events publisher stopped unexpectedly: %v", err)
		os.Exit(1)
	}
	helper.Info("caption events publisher stopped")
}

func (a *captionEventsApp) pendingEvents(ctx context.Context) (int64, error) {
	countCtx, cancel := context.WithTimeout(ctx, backlogTimeout)
	defer cancel()
	return a.Events.CountPending(countCtx)
}
