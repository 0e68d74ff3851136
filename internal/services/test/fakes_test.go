package services_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bionicotaku/lingo-services-captions/internal/captionquery"
	"github.com/bionicotaku/lingo-services-captions/internal/models/po"
	"github.com/bionicotaku/lingo-services-captions/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/google/uuid"
)

// memCaptions 是 CaptionStore 的内存实现。List/Count 不解释 Plan，只记录并返回预置结果。
type memCaptions struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]*po.Caption
	plans    []captionquery.Plan
	listFn   func(plan captionquery.Plan) []po.CaptionWithJoins
	countFn  func(plan captionquery.Plan) int64
	removed  []string
	views    map[uuid.UUID]int
	viewsErr error
}

func newMemCaptions() *memCaptions {
	return &memCaptions{rows: map[uuid.UUID]*po.Caption{}, views: map[uuid.UUID]int{}}
}

func (m *memCaptions) put(c *po.Caption) *po.Caption {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	m.rows[c.ID] = c
	return c
}

func (m *memCaptions) get(id uuid.UUID) *po.Caption {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id]
}

func (m *memCaptions) Create(_ context.Context, _ txmanager.Session, input repositories.CreateCaptionInput) (*po.Caption, error) {
	privacy := input.Privacy
	c := &po.Caption{
		ID:                  input.ID,
		CreatorID:           input.CreatorID,
		VideoID:             input.VideoID,
		VideoSource:         input.VideoSource,
		Language:            input.Language,
		Content:             input.Content,
		RawFile:             input.RawFile,
		RawContent:          input.RawContent,
		TranslatedTitle:     input.TranslatedTitle,
		Tags:                input.Tags,
		Privacy:             &privacy,
		Verified:            input.Verified,
		HasAudioDescription: input.HasAudioDescription,
		CreatedAt:           time.Now().UTC(),
	}
	if input.CreatedAt != nil {
		c.CreatedAt = *input.CreatedAt
	}
	copied := *m.put(c)
	return &copied, nil
}

func (m *memCaptions) Get(_ context.Context, _ txmanager.Session, id uuid.UUID) (*po.Caption, error) {
	c := m.get(id)
	if c == nil {
		return nil, repositories.ErrCaptionNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *memCaptions) GetForUpdate(ctx context.Context, sess txmanager.Session, id uuid.UUID) (*po.Caption, error) {
	return m.Get(ctx, sess, id)
}

func (m *memCaptions) CountForCreatorLanguage(_ context.Context, _ txmanager.Session, creatorID uuid.UUID, videoID, videoSource, language string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.rows {
		if c.CreatorID == creatorID && c.VideoID == videoID && c.VideoSource == videoSource && c.Language == language {
			n++
		}
	}
	return n, nil
}

func (m *memCaptions) List(_ context.Context, _ txmanager.Session, plan captionquery.Plan) ([]po.CaptionWithJoins, error) {
	m.mu.Lock()
	m.plans = append(m.plans, plan)
	fn := m.listFn
	m.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(plan), nil
}

func (m *memCaptions) Count(_ context.Context, _ txmanager.Session, plan captionquery.Plan) (int64, error) {
	m.mu.Lock()
	m.plans = append(m.plans, plan)
	fn := m.countFn
	m.mu.Unlock()
	if fn == nil {
		return 0, nil
	}
	return fn(plan), nil
}

func (m *memCaptions) IncrementViews(_ context.Context, _ txmanager.Session, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.viewsErr != nil {
		return m.viewsErr
	}
	m.views[id]++
	if c, ok := m.rows[id]; ok {
		c.Views++
	}
	return nil
}

func (m *memCaptions) Update(_ context.Context, _ txmanager.Session, id uuid.UUID, input repositories.UpdateCaptionInput) (*po.Caption, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, repositories.ErrCaptionNotFound
	}
	c.Content = input.Content
	c.RawFile = input.RawFile
	c.RawContent = input.RawContent
	c.TranslatedTitle = input.TranslatedTitle
	c.Tags = input.Tags
	c.Privacy = input.Privacy
	c.HasAudioDescription = input.HasAudioDescription
	copied := *c
	return &copied, nil
}

func (m *memCaptions) AdjustVotes(_ context.Context, _ txmanager.Session, id uuid.UUID, likesDelta, dislikesDelta int32) (int32, int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return 0, 0, repositories.ErrCaptionNotFound
	}
	c.Likes = max(c.Likes+likesDelta, 0)
	c.Dislikes = max(c.Dislikes+dislikesDelta, 0)
	return c.Likes, c.Dislikes, nil
}

func (m *memCaptions) ApplyReview(_ context.Context, _ txmanager.Session, id uuid.UUID, verified, rejected bool, entry po.ReviewEntry) (*po.Caption, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, repositories.ErrCaptionNotFound
	}
	c.Verified = verified
	c.Rejected = &rejected
	c.ReviewHistory = append(c.ReviewHistory, entry)
	copied := *c
	return &copied, nil
}

func (m *memCaptions) Delete(_ context.Context, _ txmanager.Session, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repositories.ErrCaptionNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memCaptions) RemoveTagsMatching(_ context.Context, _ txmanager.Session, creatorID uuid.UUID, pattern string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, pattern)
	return 0, nil
}

// memVideos 是 VideoStore 的内存实现。
type memVideos struct {
	mu      sync.Mutex
	rows    map[string]*po.Video
	batches [][]repositories.CreateVideoInput
	batchFn func(inputs []repositories.CreateVideoInput) (int, error)
	search  []po.Video
	plans   []captionquery.SearchPlan
}

func newMemVideos() *memVideos {
	return &memVideos{rows: map[string]*po.Video{}}
}

func videoKey(sourceID, source string) string { return source + "/" + sourceID }

func (m *memVideos) put(v *po.Video) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.Captions == nil {
		v.Captions = map[string]int32{}
	}
	m.rows[videoKey(v.SourceID, v.Source)] = v
}

func (m *memVideos) video(sourceID, source string) *po.Video {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[videoKey(sourceID, source)]
}

func (m *memVideos) Get(_ context.Context, _ txmanager.Session, sourceID, source string) (*po.Video, error) {
	v := m.video(sourceID, source)
	if v == nil {
		return nil, repositories.ErrVideoNotFound
	}
	copied := *v
	return &copied, nil
}

func (m *memVideos) Create(_ context.Context, _ txmanager.Session, input repositories.CreateVideoInput) (*po.Video, bool, error) {
	if v := m.video(input.SourceID, input.Source); v != nil {
		return v, false, nil
	}
	language := input.Language
	if language == "" {
		language = captionquery.UnknownLanguage
	}
	v := &po.Video{SourceID: input.SourceID, Source: input.Source, Name: input.Name, Language: language}
	m.put(v)
	return v, true, nil
}

func (m *memVideos) CreateBatch(_ context.Context, _ txmanager.Session, inputs []repositories.CreateVideoInput) (int, error) {
	m.mu.Lock()
	batch := append([]repositories.CreateVideoInput(nil), inputs...)
	m.batches = append(m.batches, batch)
	fn := m.batchFn
	m.mu.Unlock()
	if fn != nil {
		return fn(batch)
	}
	return len(batch), nil
}

func (m *memVideos) IncrementCaptionCount(_ context.Context, _ txmanager.Session, sourceID, source, language string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.rows[videoKey(sourceID, source)]
	if !ok {
		return false, nil
	}
	v.CaptionCount++
	v.Captions[language]++
	return true, nil
}

func (m *memVideos) DecrementCaptionCount(_ context.Context, _ txmanager.Session, sourceID, source, language string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.rows[videoKey(sourceID, source)]
	if !ok {
		return false, nil
	}
	v.CaptionCount = max(v.CaptionCount-1, 0)
	v.Captions[language] = max(v.Captions[language]-1, 0)
	return true, nil
}

func (m *memVideos) Search(_ context.Context, _ txmanager.Session, plan captionquery.SearchPlan) ([]po.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans = append(m.plans, plan)
	return m.search, nil
}

// memCaptioners 是 CaptionerStore 的内存实现，以 user_id（或无账号档案的 id）为键。
type memCaptioners struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]*po.Captioner
	taken map[string]bool
}

func newMemCaptioners() *memCaptioners {
	return &memCaptioners{rows: map[uuid.UUID]*po.Captioner{}, taken: map[string]bool{}}
}

func (m *memCaptioners) put(userID uuid.UUID, c *po.Captioner) *po.Captioner {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if userID != uuid.Nil {
		id := userID
		c.UserID = &id
	}
	key := userID
	if key == uuid.Nil {
		key = c.ID
	}
	m.rows[key] = c
	return c
}

func (m *memCaptioners) captioner(userID uuid.UUID) *po.Captioner {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[userID]
}

func (m *memCaptioners) Create(_ context.Context, _ txmanager.Session, input repositories.CreateCaptionerInput) (*po.Captioner, bool, error) {
	if input.UserID != nil {
		if existing := m.captioner(*input.UserID); existing != nil {
			return existing, false, nil
		}
	}
	c := &po.Captioner{ID: input.ID, Name: input.Name, NameTag: input.NameTag}
	userID := uuid.Nil
	if input.UserID != nil {
		userID = *input.UserID
	}
	return m.put(userID, c), true, nil
}

func (m *memCaptioners) GetByUserID(_ context.Context, _ txmanager.Session, userID uuid.UUID) (*po.Captioner, error) {
	c := m.captioner(userID)
	if c == nil || c.UserID == nil {
		return nil, repositories.ErrCaptionerNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *memCaptioners) GetByID(_ context.Context, _ txmanager.Session, id uuid.UUID) (*po.Captioner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.rows {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, repositories.ErrCaptionerNotFound
}

func (m *memCaptioners) with(userID uuid.UUID, fn func(*po.Captioner)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[userID]
	if !ok {
		return repositories.ErrCaptionerNotFound
	}
	fn(c)
	return nil
}

func (m *memCaptioners) UpdateProfile(_ context.Context, _ txmanager.Session, userID uuid.UUID, input repositories.UpdateCaptionerProfileInput) (*po.Captioner, error) {
	var out po.Captioner
	err := m.with(userID, func(c *po.Captioner) {
		c.DonationLink = input.DonationLink
		c.ProfileMessage = input.ProfileMessage
		c.Languages = input.Languages
		out = *c
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *memCaptioners) NameTagTaken(_ context.Context, _ txmanager.Session, name string, nameTag int32, _ uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.taken[nameKey(name, nameTag)], nil
}

func nameKey(name string, tag int32) string {
	return fmt.Sprintf("%s#%d", name, tag)
}

func (m *memCaptioners) SetName(_ context.Context, _ txmanager.Session, userID uuid.UUID, name string, nameTag int32) error {
	return m.with(userID, func(c *po.Captioner) {
		c.Name = name
		c.NameTag = nameTag
	})
}

func (m *memCaptioners) SetVerified(_ context.Context, _ txmanager.Session, userID uuid.UUID, verified bool) error {
	return m.with(userID, func(c *po.Captioner) { c.Verified = verified })
}

func (m *memCaptioners) SetBanned(_ context.Context, _ txmanager.Session, userID uuid.UUID, banned bool) error {
	return m.with(userID, func(c *po.Captioner) { c.Banned = banned })
}

func (m *memCaptioners) TouchLastSubmission(_ context.Context, _ txmanager.Session, userID uuid.UUID, at time.Time) (bool, error) {
	err := m.with(userID, func(c *po.Captioner) { c.LastSubmissionTime = &at })
	return err == nil, nil
}

func (m *memCaptioners) AdjustCaptionCount(_ context.Context, _ txmanager.Session, userID uuid.UUID, delta int32) (bool, error) {
	err := m.with(userID, func(c *po.Captioner) { c.CaptionCount = max(c.CaptionCount+delta, 0) })
	return err == nil, nil
}

func (m *memCaptioners) AppendCaptionTags(_ context.Context, _ txmanager.Session, userID uuid.UUID, tags []string) error {
	return m.with(userID, func(c *po.Captioner) { c.CaptionTags = append(c.CaptionTags, tags...) })
}

func (m *memCaptioners) SetCaptionTags(_ context.Context, _ txmanager.Session, userID uuid.UUID, tags []string) error {
	return m.with(userID, func(c *po.Captioner) { c.CaptionTags = tags })
}

// memPrivates 是 CaptionerPrivateStore 的内存实现。
type memPrivates struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*po.CaptionerPrivate
}

func newMemPrivates() *memPrivates {
	return &memPrivates{rows: map[uuid.UUID]*po.CaptionerPrivate{}}
}

func (m *memPrivates) Upsert(_ context.Context, _ txmanager.Session, captionerID uuid.UUID, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[captionerID] = &po.CaptionerPrivate{CaptionerID: captionerID, Email: email}
	return nil
}

func (m *memPrivates) Get(_ context.Context, _ txmanager.Session, captionerID uuid.UUID) (*po.CaptionerPrivate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[captionerID]
	if !ok {
		return nil, repositories.ErrCaptionerPrivateNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *memPrivates) FindByEmail(_ context.Context, _ txmanager.Session, email string) (*po.CaptionerPrivate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.rows {
		if p.Email == email {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repositories.ErrCaptionerPrivateNotFound
}

// memLikes 是 CaptionLikesStore 的内存实现。
type memLikes struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*po.CaptionLikes
}

func newMemLikes() *memLikes {
	return &memLikes{rows: map[uuid.UUID]*po.CaptionLikes{}}
}

func (m *memLikes) Get(_ context.Context, _ txmanager.Session, userID uuid.UUID) (*po.CaptionLikes, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[userID]
	if !ok {
		return &po.CaptionLikes{UserID: userID}, nil
	}
	return cloneLikes(r), nil
}

func (m *memLikes) GetOrCreateForUpdate(ctx context.Context, sess txmanager.Session, userID uuid.UUID) (*po.CaptionLikes, error) {
	return m.Get(ctx, sess, userID)
}

func (m *memLikes) Save(_ context.Context, _ txmanager.Session, likes *po.CaptionLikes) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[likes.UserID] = cloneLikes(likes)
	return nil
}

func cloneLikes(r *po.CaptionLikes) *po.CaptionLikes {
	return &po.CaptionLikes{
		UserID:   r.UserID,
		Likes:    append([]uuid.UUID(nil), r.Likes...),
		Dislikes: append([]uuid.UUID(nil), r.Dislikes...),
	}
}

// memRoles 是 RoleStore 的内存实现。
type memRoles struct {
	mu   sync.Mutex
	rows map[uuid.UUID]map[po.Role]bool
}

func newMemRoles() *memRoles {
	return &memRoles{rows: map[uuid.UUID]map[po.Role]bool{}}
}

func (m *memRoles) ListRoles(_ context.Context, _ txmanager.Session, userID uuid.UUID) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for role, ok := range m.rows[userID] {
		if ok {
			out = append(out, string(role))
		}
	}
	return out, nil
}

func (m *memRoles) HasRole(_ context.Context, _ txmanager.Session, userID uuid.UUID, role po.Role) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[userID][role], nil
}

func (m *memRoles) Grant(_ context.Context, _ txmanager.Session, userID uuid.UUID, role po.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rows[userID] == nil {
		m.rows[userID] = map[po.Role]bool{}
	}
	m.rows[userID][role] = true
	return nil
}

func (m *memRoles) Revoke(_ context.Context, _ txmanager.Session, userID uuid.UUID, role po.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows[userID], role)
	return nil
}
