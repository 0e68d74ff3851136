package accounts_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-captions/internal/models/po"
	"github.com/bionicotaku/lingo-services-captions/internal/repositories"
	"github.com/bionicotaku/lingo-services-captions/internal/tasks/accounts"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

type fakeSession struct{}

func (fakeSession) Tx() pgx.Tx               { return nil }
func (fakeSession) Context() context.Context { return context.Background() }

type fakeCaptioners struct {
	byUser map[uuid.UUID]*po.Captioner
	err    error
}

func (f *fakeCaptioners) Create(_ context.Context, _ txmanager.Session, input repositories.CreateCaptionerInput) (*po.Captioner, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	if existing, ok := f.byUser[*input.UserID]; ok {
		return existing, false, nil
	}
	c := &po.Captioner{ID: input.ID, UserID: input.UserID, Name: input.Name, NameTag: input.NameTag}
	f.byUser[*input.UserID] = c
	return c, true, nil
}

type fakePrivates struct {
	emails map[uuid.UUID]string
}

func (f *fakePrivates) Upsert(_ context.Context, _ txmanager.Session, captionerID uuid.UUID, email string) error {
	f.emails[captionerID] = email
	return nil
}

func newHandler(captioners *fakeCaptioners, privates *fakePrivates) *accounts.EventHandler {
	return accounts.NewEventHandler(captioners, privates, log.NewStdLogger(io.Discard), nil)
}

func TestEventHandlerCreatesPlaceholderCaptioner(t *testing.T) {
	captioners := &fakeCaptioners{byUser: map[uuid.UUID]*po.Captioner{}}
	privates := &fakePrivates{emails: map[uuid.UUID]string{}}
	handler := newHandler(captioners, privates)

	userID := uuid.New()
	evt := &accounts.Event{
		EventID:    uuid.NewString(),
		EventType:  accounts.EventTypeUserCreated,
		UserID:     userID.String(),
		Email:      "new@example.com",
		OccurredAt: time.Now().UTC(),
	}
	require.NoError(t, handler.Handle(context.Background(), fakeSession{}, evt, nil))

	captioner, ok := captioners.byUser[userID]
	require.True(t, ok)
	require.Equal(t, userID, captioner.ID)
	require.Empty(t, captioner.Name)
	require.Equal(t, po.PlaceholderNameTag, captioner.NameTag)
	require.Equal(t, "new@example.com", privates.emails[userID])

	// 重复投递不会新建档案
	evt.Email = "changed@example.com"
	require.NoError(t, handler.Handle(context.Background(), fakeSession{}, evt, nil))
	require.Len(t, captioners.byUser, 1)
	require.Equal(t, "changed@example.com", privates.emails[userID])
}

func TestEventHandlerSkipsOtherEvents(t *testing.T) {
	captioners := &fakeCaptioners{byUser: map[uuid.UUID]*po.Captioner{}}
	privates := &fakePrivates{emails: map[uuid.UUID]string{}}
	handler := newHandler(captioners, privates)

	evt := &accounts.Event{EventType: "account.user.deleted", UserID: uuid.NewString()}
	require.NoError(t, handler.Handle(context.Background(), fakeSession{}, evt, nil))
	require.Empty(t, captioners.byUser)
	require.Empty(t, privates.emails)
}

func TestEventHandlerErrors(t *testing.T) {
	captioners := &fakeCaptioners{byUser: map[uuid.UUID]*po.Captioner{}}
	privates := &fakePrivates{emails: map[uuid.UUID]string{}}
	handler := newHandler(captioners, privates)

	require.Error(t, handler.Handle(context.Background(), fakeSession{}, nil, nil))

	bad := &accounts.Event{EventType: accounts.EventTypeUserCreated, UserID: "not-a-uuid"}
	require.Error(t, handler.Handle(context.Background(), fakeSession{}, bad, nil))

	captioners.err = errors.New("db down")
	evt := &accounts.Event{EventType: accounts.EventTypeUserCreated, UserID: uuid.NewString()}
	err := handler.Handle(context.Background(), fakeSession{}, evt, nil)
	require.ErrorContains(t, err, "db down")
	require.Empty(t, privates.emails)
}
