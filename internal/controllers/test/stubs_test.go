package controllers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bionicotaku/lingo-services-captions/internal/controllers"
	"github.com/bionicotaku/lingo-services-captions/internal/metadata"
	"github.com/bionicotaku/lingo-services-captions/internal/models/vo"
	"github.com/bionicotaku/lingo-services-captions/internal/services"

	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// useCaseStub 同时实现路由依赖的全部用例接口，未设置的方法返回零值。
type useCaseStub struct {
	mode    vo.OperationalMode
	modeErr error
	roles   vo.RoleSet

	modeCalls    int
	resolvedIDs  []uuid.UUID
	resolvedToks []string
	lastAuth     metadata.AuthContext
	lastMode     vo.OperationalMode
	submitted    *services.SubmitCaptionInput
	updated      *services.UpdateCaptionInput
	searched     *services.SearchInput
	withCaptions *bool
	calls        []string

	loadFn   func(string) (*vo.LoadedCaption, error)
	browseFn func(limit, offset int) (vo.BrowseResult, error)
}

func (s *useCaseStub) record(name string, auth metadata.AuthContext) {
	s.calls = append(s.calls, name)
	s.lastAuth = auth
}

func (s *useCaseStub) Resolve(_ context.Context, userID uuid.UUID, token string) (metadata.AuthContext, error) {
	s.resolvedIDs = append(s.resolvedIDs, userID)
	s.resolvedToks = append(s.resolvedToks, token)
	return metadata.AuthContext{UserID: userID, Roles: s.roles, SessionToken: token}, nil
}

func (s *useCaseStub) Mode(context.Context) (vo.OperationalMode, error) {
	s.modeCalls++
	return s.mode, s.modeErr
}

func (s *useCaseStub) Submit(_ context.Context, auth metadata.AuthContext, input services.SubmitCaptionInput) (string, error) {
	s.record("submit", auth)
	s.submitted = &input
	return "new-caption", nil
}

func (s *useCaseStub) Update(_ context.Context, auth metadata.AuthContext, input services.UpdateCaptionInput) error {
	s.record("update", auth)
	s.updated = &input
	return nil
}

func (s *useCaseStub) Delete(_ context.Context, auth metadata.AuthContext, _ string) error {
	s.record("delete", auth)
	return nil
}

func (s *useCaseStub) Load(_ context.Context, auth metadata.AuthContext, id string) (*vo.LoadedCaption, error) {
	s.record("load", auth)
	if s.loadFn != nil {
		return s.loadFn(id)
	}
	return &vo.LoadedCaption{}, nil
}

func (s *useCaseStub) LoadForReview(_ context.Context, auth metadata.AuthContext, _ string) (*vo.ReviewCaption, error) {
	s.record("loadForReview", auth)
	return &vo.ReviewCaption{}, nil
}

func (s *useCaseStub) Find(_ context.Context, auth metadata.AuthContext, _, _ string) ([]vo.FoundCaption, error) {
	s.record("find", auth)
	return []vo.FoundCaption{}, nil
}

func (s *useCaseStub) Like(_ context.Context, auth metadata.AuthContext, _ string) (*vo.VoteResult, error) {
	s.record("like", auth)
	return &vo.VoteResult{Likes: 1, UserLike: true}, nil
}

func (s *useCaseStub) Dislike(_ context.Context, auth metadata.AuthContext, _ string) (*vo.VoteResult, error) {
	s.record("dislike", auth)
	return &vo.VoteResult{Dislikes: 1, UserDislike: true}, nil
}

func (s *useCaseStub) Verify(_ context.Context, auth metadata.AuthContext, _, _ string) (*vo.ReviewResult, error) {
	s.record("verify", auth)
	return &vo.ReviewResult{Verified: true}, nil
}

func (s *useCaseStub) Reject(_ context.Context, auth metadata.AuthContext, _, _ string) (*vo.ReviewResult, error) {
	s.record("reject", auth)
	return &vo.ReviewResult{Rejected: true}, nil
}

func (s *useCaseStub) Latest(context.Context) (vo.CaptionPage, error) {
	s.record("latest", metadata.Anonymous())
	return vo.CaptionPage{Captions: []vo.CaptionListFields{}}, nil
}

func (s *useCaseStub) LatestLanguage(context.Context, string) (vo.CaptionPage, error) {
	s.record("latestLanguage", metadata.Anonymous())
	return vo.CaptionPage{Captions: []vo.CaptionListFields{}}, nil
}

func (s *useCaseStub) Popular(_ context.Context, auth metadata.AuthContext) (vo.CaptionPage, error) {
	s.record("popular", auth)
	return vo.CaptionPage{Captions: []vo.CaptionListFields{}}, nil
}

func (s *useCaseStub) Browse(_ context.Context, limit, offset int) (vo.BrowseResult, error) {
	s.record("browse", metadata.Anonymous())
	if s.browseFn != nil {
		return s.browseFn(limit, offset)
	}
	return vo.BrowseResult{Captions: []vo.CaptionListFields{}}, nil
}

func (s *useCaseStub) Search(_ context.Context, input services.SearchInput) (vo.SearchResult, error) {
	s.record("search", metadata.Anonymous())
	s.searched = &input
	return vo.SearchResult{Videos: []vo.VideoFields{}}, nil
}

func (s *useCaseStub) LoadProfile(_ context.Context, auth metadata.AuthContext, _ string, withCaptions bool) (*vo.ProfileView, error) {
	s.record("loadProfile", auth)
	s.withCaptions = &withCaptions
	return &vo.ProfileView{Captions: []vo.CaptionListFields{}}, nil
}

func (s *useCaseStub) LoadPrivateCaptionerData(_ context.Context, auth metadata.AuthContext, withCaptions bool) (*vo.PrivateCaptionerData, error) {
	s.record("loadPrivate", auth)
	s.withCaptions = &withCaptions
	return &vo.PrivateCaptionerData{}, nil
}

func (s *useCaseStub) LoadUserCaptions(_ context.Context, auth metadata.AuthContext, _ services.UserCaptionsInput) (vo.CaptionPage, error) {
	s.record("loadUserCaptions", auth)
	return vo.CaptionPage{Captions: []vo.CaptionListFields{}}, nil
}

func (s *useCaseStub) UpdateCaptionerProfile(_ context.Context, auth metadata.AuthContext, _ services.UpdateProfileInput) (*vo.UpdatedProfile, error) {
	s.record("updateProfile", auth)
	return nil, nil
}

func (s *useCaseStub) AssignReviewer(_ context.Context, auth metadata.AuthContext, _ string) error {
	s.record("assignReviewer", auth)
	return nil
}

func (s *useCaseStub) AssignReviewerManager(_ context.Context, auth metadata.AuthContext, _ string) error {
	s.record("assignReviewerManager", auth)
	return nil
}

func (s *useCaseStub) VerifyCaptioner(_ context.Context, auth metadata.AuthContext, _ string) error {
	s.record("verifyCaptioner", auth)
	return nil
}

func (s *useCaseStub) BanCaptioner(_ context.Context, auth metadata.AuthContext, _ string) error {
	s.record("banCaptioner", auth)
	return nil
}

func (s *useCaseStub) OwnProfileTags(_ context.Context, auth metadata.AuthContext) ([]vo.TagCount, error) {
	s.record("ownProfileTags", auth)
	return []vo.TagCount{{Tag: "g:anime:red", Count: 3}}, nil
}

func (s *useCaseStub) DeleteProfileTag(_ context.Context, auth metadata.AuthContext, _ string) error {
	s.record("deleteProfileTag", auth)
	return nil
}

func (s *useCaseStub) Global(context.Context) (*vo.GlobalStats, error) {
	s.record("globalStats", metadata.Anonymous())
	return &vo.GlobalStats{TotalViews: 42}, nil
}

func (s *useCaseStub) List(context.Context, string, string) ([]vo.AutoCaptionLanguage, error) {
	s.record("autoCaptions", metadata.Anonymous())
	return []vo.AutoCaptionLanguage{}, nil
}

func (s *useCaseStub) migration(auth metadata.AuthContext, mode vo.OperationalMode) *vo.MigrationResult {
	s.record("migration", auth)
	s.lastMode = mode
	if mode != vo.ModeMaintenance {
		return &vo.MigrationResult{Status: vo.MigrationStatusFailed}
	}
	return &vo.MigrationResult{Status: vo.MigrationStatusAdded}
}

func (s *useCaseStub) CreateVideo(_ context.Context, auth metadata.AuthContext, mode vo.OperationalMode, _ services.CreateVideoInput) (*vo.MigrationResult, error) {
	return s.migration(auth, mode), nil
}

func (s *useCaseStub) CreateBatchYoutubeVideos(_ context.Context, auth metadata.AuthContext, mode vo.OperationalMode, _ []string, _ map[string]string) (*vo.MigrationResult, error) {
	return s.migration(auth, mode), nil
}

func (s *useCaseStub) CreateCaptionerWithoutUser(_ context.Context, auth metadata.AuthContext, mode vo.OperationalMode, _, _ string) (*vo.MigrationResult, error) {
	return s.migration(auth, mode), nil
}

func (s *useCaseStub) CreateCaption(_ context.Context, auth metadata.AuthContext, mode vo.OperationalMode, _ services.ImportCaptionInput) (*vo.MigrationResult, error) {
	return s.migration(auth, mode), nil
}

func newTestServer(stub *useCaseStub) *khttp.Server {
	uc := controllers.UseCases{
		Captions:    stub,
		Votes:       stub,
		Reviews:     stub,
		Discovery:   stub,
		Search:      stub,
		Profiles:    stub,
		Roles:       stub,
		Tags:        stub,
		Stats:       stub,
		AutoCaption: stub,
		Migration:   stub,
	}
	router := controllers.NewRouter(nil, uc, stub, stub, log.NewStdLogger(io.Discard))
	srv := khttp.NewServer()
	router.Register(srv)
	return srv
}

// post 发送请求并返回解码后的 JSON 响应体，HTTP 状态码必须为 200。
func post(t *testing.T, srv *khttp.Server, name, body string, headers ...string) map[string]any {
	t.Helper()
	req := httptest.NewRequest("POST", "/v1/"+name, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code, rec.Body.String())

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func requireErrorEnvelope(t *testing.T, out map[string]any, kind, message string) {
	t.Helper()
	require.Equal(t, "error", out["status"])
	require.Equal(t, kind, out["errorKind"])
	require.Equal(t, message, out["error"])
}
