// Package accounts 消费账号服务的 account.user.* 事件，为新用户建立作者档案与私有资料。
package accounts

import (
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// EventTypeUserCreated 是账号创建事件的类型名。
const EventTypeUserCreated = "account.user.created"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Event 描述账号服务发布的用户事件。
type Event struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

type eventDecoder struct{}

func newEventDecoder() *eventDecoder {
	return &eventDecoder{}
}

// Decode 解析 JSON 载荷。
func (d *eventDecoder) Decode(data []byte) (*Event, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("accounts: empty payload")
	}
	evt := &Event{}
	if err := json.Unmarshal(data, evt); err != nil {
		return nil, fmt.Errorf("accounts: unmarshal event: %w", err)
	}
	evt.EventType = strings.TrimSpace(evt.EventType)
	evt.Email = strings.TrimSpace(evt.Email)
	return evt, nil
}
