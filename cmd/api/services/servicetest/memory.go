// Package servicetest provides in-memory stores that mirror the Mongo repositories,
// for exercising services and handlers without a database.
package servicetest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"post-pilot/models"
	"post-pilot/repositories"
)

type Users struct {
	mu    sync.Mutex
	byUID map[string]*models.User
	// Err 가 설정되면 모든 호출이 이 에러를 반환한다.
	Err error
}

func NewUsers(users ...models.User) *Users {
	u := &Users{byUID: map[string]*models.User{}}
	for i := range users {
		user := users[i]
		u.byUID[user.UID] = &user
	}
	return u
}

func (u *Users) FindByUID(ctx context.Context, uid string) (*models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return nil, u.Err
	}
	user, ok := u.byUID[uid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (u *Users) IncrementPostCount(ctx context.Context, uid string, delta int) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return u.Err
	}
	user, ok := u.byUID[uid]
	if !ok {
		user = &models.User{UID: uid, Plan: models.PlanFree, CreatedAt: time.Now()}
		u.byUID[uid] = user
	}
	user.PostCount += delta
	user.UpdatedAt = time.Now()
	return nil
}

func (u *Users) SetPlan(ctx context.Context, uid string, plan models.Plan) (*models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return nil, u.Err
	}
	user, ok := u.byUID[uid]
	if !ok {
		user = &models.User{UID: uid, CreatedAt: time.Now()}
		u.byUID[uid] = user
	}
	user.Plan = plan
	user.UpdatedAt = time.Now()
	cp := *user
	return &cp, nil
}

// ReservePost mirrors the conditional $inc of the Mongo repository.
func (u *Users) ReservePost(ctx context.Context, uid string, limit int) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return false, u.Err
	}
	user, ok := u.byUID[uid]
	if !ok {
		user = &models.User{UID: uid, Plan: models.PlanFree, CreatedAt: time.Now()}
		u.byUID[uid] = user
	}
	if user.Plan != models.PlanPremium && user.PostCount >= limit {
		return false, nil
	}
	user.PostCount++
	user.UpdatedAt = time.Now()
	return true, nil
}

// PostCount returns the stored counter, or -1 when the user does not exist.
func (u *Users) PostCount(uid string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	if user, ok := u.byUID[uid]; ok {
		return user.PostCount
	}
	return -1
}

type Posts struct {
	mu    sync.Mutex
	byID  map[primitive.ObjectID]*models.Post
	clock time.Time
	Err   error
}

func NewPosts() *Posts {
	return &Posts{byID: map[primitive.ObjectID]*models.Post{}, clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// tick 은 삽입 순서가 created_at 순서와 같도록 단조 증가 시각을 돌려준다.
func (p *Posts) tick() time.Time {
	p.clock = p.clock.Add(time.Second)
	return p.clock
}

func (p *Posts) Insert(ctx context.Context, post *models.Post) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	post.ID = primitive.NewObjectID()
	now := p.tick()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now
	if post.Status == "" {
		post.Status = models.PostStatusDraft
	}
	cp := *post
	p.byID[post.ID] = &cp
	return nil
}

func (p *Posts) get(ownerID string, id primitive.ObjectID) (*models.Post, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	post, ok := p.byID[id]
	if !ok || post.OwnerID != ownerID {
		return nil, repositories.ErrNotFound
	}
	return post, nil
}

func (p *Posts) FindByID(ctx context.Context, ownerID string, id primitive.ObjectID) (*models.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	post, err := p.get(ownerID, id)
	if err != nil {
		return nil, err
	}
	cp := *post
	return &cp, nil
}

func (p *Posts) List(ctx context.Context, opt repositories.ListPostsOptions) ([]models.Post, int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, 0, p.Err
	}
	var matched []models.Post
	for _, post := range p.byID {
		if post.OwnerID != opt.OwnerID {
			continue
		}
		if opt.Status != "" && post.Status != opt.Status {
			continue
		}
		matched = append(matched, *post)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	start := (opt.Page - 1) * opt.PageSize
	if start >= len(matched) {
		return []models.Post{}, total, nil
	}
	end := start + opt.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (p *Posts) ListScheduledBetween(ctx context.Context, ownerID string, from, to time.Time) ([]models.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	out := []models.Post{}
	for _, post := range p.byID {
		if post.OwnerID != ownerID || post.Status != models.PostStatusScheduled || post.ScheduledAt == nil {
			continue
		}
		if !post.ScheduledAt.Before(from) && post.ScheduledAt.Before(to) {
			out = append(out, *post)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(*out[j].ScheduledAt) })
	return out, nil
}

func (p *Posts) Update(ctx context.Context, ownerID string, id primitive.ObjectID, u repositories.PostUpdate) (*models.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	post, err := p.get(ownerID, id)
	if err != nil {
		return nil, err
	}
	if u.Content != nil {
		post.Content = *u.Content
	}
	if u.Topic != nil {
		post.Topic = *u.Topic
	}
	if u.Tone != nil {
		post.Tone = *u.Tone
	}
	post.UpdatedAt = p.tick()
	cp := *post
	return &cp, nil
}

func (p *Posts) Schedule(ctx context.Context, ownerID string, id primitive.ObjectID, at time.Time) (*models.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	post, err := p.get(ownerID, id)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusDraft && post.Status != models.PostStatusScheduled {
		return nil, repositories.ErrNotFound
	}
	post.Status = models.PostStatusScheduled
	post.ScheduledAt = &at
	post.UpdatedAt = p.tick()
	cp := *post
	return &cp, nil
}

func (p *Posts) Unschedule(ctx context.Context, ownerID string, id primitive.ObjectID) (*models.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	post, err := p.get(ownerID, id)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusScheduled {
		return nil, repositories.ErrNotFound
	}
	post.Status = models.PostStatusDraft
	post.ScheduledAt = nil
	post.UpdatedAt = p.tick()
	cp := *post
	return &cp, nil
}

func (p *Posts) Delete(ctx context.Context, ownerID string, id primitive.ObjectID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.get(ownerID, id); err != nil {
		return err
	}
	delete(p.byID, id)
	return nil
}

func (p *Posts) CountByStatus(ctx context.Context, ownerID string, status models.PostStatus) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return 0, p.Err
	}
	var n int64
	for _, post := range p.byID {
		if post.OwnerID == ownerID && post.Status == status {
			n++
		}
	}
	return n, nil
}

// FindDue 와 MarkPublished 는 worker sweeper 가 사용한다.
func (p *Posts) FindDue(ctx context.Context, now time.Time, limit int64) ([]models.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	out := []models.Post{}
	for _, post := range p.byID {
		if post.Status == models.PostStatusScheduled && post.ScheduledAt != nil && !post.ScheduledAt.After(now) {
			out = append(out, *post)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(*out[j].ScheduledAt) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (p *Posts) MarkPublished(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return false, p.Err
	}
	post, ok := p.byID[id]
	if !ok || post.Status != models.PostStatusScheduled {
		return false, nil
	}
	if post.ScheduledAt == nil || post.ScheduledAt.After(at) {
		return false, nil
	}
	post.Status = models.PostStatusPublished
	post.PublishedAt = &at
	post.UpdatedAt = at
	return true, nil
}

// ForceStatus 는 테스트 준비용으로 상태를 직접 바꾼다.
func (p *Posts) ForceStatus(id primitive.ObjectID, status models.PostStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if post, ok := p.byID[id]; ok {
		post.Status = status
	}
}

type AILogs struct {
	mu   sync.Mutex
	Logs []models.AILog
	Err  error
}

func (a *AILogs) Insert(ctx context.Context, log models.AILog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	a.Logs = append(a.Logs, log)
	return nil
}

func (a *AILogs) All() []models.AILog {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.AILog(nil), a.Logs...)
}

// Limiter 는 Allow 가 false 이면 한도 초과로 응답한다.
type Limiter struct {
	mu    sync.Mutex
	Allow bool
	Calls int
}

func (l *Limiter) WaitAndReserve(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Calls++
	return l.Allow, nil
}

var ErrStoreDown = errors.New("store unavailable")
