package configloader

import (
	"context"
	"fmt"

	"github.com/bionicotaku/lingo-utils/gcpubsub"
)

// AccountsSubscriber 订阅账户服务发布的 account 事件。
type AccountsSubscriber gcpubsub.Subscriber

// ProvideAccountsSubscriber 基于 messaging.accounts 构造独立的订阅者。
// 未配置订阅时返回 nil，调用方据此跳过消费任务。
func ProvideAccountsSubscriber(ctx context.Context, msg MessagingConfig, deps gcpubsub.Dependencies) (AccountsSubscriber, func(), error) {
	cfg := toGCPubSubConfig(msg.Accounts)
	if cfg.ProjectID == "" || cfg.SubscriptionID == "" {
		return nil, func() {}, nil
	}
	component, cleanup, err := gcpubsub.NewComponent(ctx, cfg, deps)
	if err != nil {
		return nil, nil, fmt.Errorf("init accounts subscriber: %w", err)
	}
	return gcpubsub.ProvideSubscriber(component), cleanup, nil
}
