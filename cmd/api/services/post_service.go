package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"post-pilot/cmd/api/dto"
	"post-pilot/config"
	"post-pilot/events"
	"post-pilot/events/dispatcher"
	"post-pilot/flows"
	"post-pilot/models"
	"post-pilot/render"
	"post-pilot/repositories"
)

// 캘린더 조회 범위 상한
const maxCalendarRange = 92 * 24 * time.Hour

// Regenerator 는 라이브러리 게시물의 제자리 재생성에 쓰인다. FlowService 가 구현한다.
type Regenerator interface {
	Regenerate(ctx context.Context, uid string, req flows.RegenerationRequest) (flows.RegenerationResult, error)
}

// PostService 는 사용자 라이브러리(저장/조회/수정/삭제)와 캘린더(예약/해제)를 담당한다.
type PostService struct {
	posts       PostStore
	regenerator Regenerator
	dispatcher  *dispatcher.Dispatcher
	now         func() time.Time
}

func NewPostService(posts PostStore, regenerator Regenerator, d *dispatcher.Dispatcher) *PostService {
	return &PostService{
		posts:       posts,
		regenerator: regenerator,
		dispatcher:  d,
		now:         time.Now,
	}
}

type ListPostsInput struct {
	Status   string
	Page     int
	PageSize int
}

func (s *PostService) Save(ctx context.Context, uid string, req dto.SavePostRequest) (dto.PostDTO, error) {
	if strings.TrimSpace(req.Content) == "" {
		return dto.PostDTO{}, &flows.ValidationError{Flow: "savePost", Field: "content", Reason: "must not be empty"}
	}
	// 재생성 입력으로 다시 쓰이므로 topic, tone 모두 필수
	for _, f := range []struct{ name, value string }{{"topic", req.Topic}, {"tone", req.Tone}} {
		if strings.TrimSpace(f.value) == "" {
			return dto.PostDTO{}, &flows.ValidationError{Flow: "savePost", Field: f.name, Reason: "must not be empty"}
		}
	}
	p := &models.Post{
		OwnerID: uid,
		Content: req.Content,
		Topic:   strings.TrimSpace(req.Topic),
		Tone:    strings.TrimSpace(req.Tone),
		Status:  models.PostStatusDraft,
	}
	if err := s.posts.Insert(ctx, p); err != nil {
		return dto.PostDTO{}, err
	}
	s.publish(ctx, events.PostSaved, *p)
	return dto.NewPostDTO(*p), nil
}

func (s *PostService) List(ctx context.Context, uid string, in ListPostsInput) (dto.Pagination[dto.PostDTO], error) {
	status := models.PostStatus(in.Status)
	if status != "" && !status.Valid() {
		return dto.Pagination[dto.PostDTO]{}, &flows.ValidationError{Flow: "listPosts", Field: "status", Reason: "must be one of draft, scheduled, published"}
	}
	opt := repositories.ListPostsOptions{OwnerID: uid, Status: status, Page: in.Page, PageSize: in.PageSize}
	if opt.Page <= 0 {
		opt.Page = 1
	}
	if opt.PageSize <= 0 || opt.PageSize > 100 {
		opt.PageSize = 20
	}

	posts, total, err := s.posts.List(ctx, opt)
	if err != nil {
		return dto.Pagination[dto.PostDTO]{}, err
	}
	return dto.Pagination[dto.PostDTO]{
		Data:     dto.NewPostDTOs(posts),
		Page:     opt.Page,
		PageSize: opt.PageSize,
		Total:    total,
	}, nil
}

func (s *PostService) Get(ctx context.Context, uid, id string) (dto.PostDTO, error) {
	p, err := s.find(ctx, uid, id)
	if err != nil {
		return dto.PostDTO{}, err
	}
	return dto.NewPostDTO(*p), nil
}

func (s *PostService) Update(ctx context.Context, uid, id string, req dto.UpdatePostRequest) (dto.PostDTO, error) {
	oid, err := parseID(id)
	if err != nil {
		return dto.PostDTO{}, err
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) == "" {
		return dto.PostDTO{}, &flows.ValidationError{Flow: "updatePost", Field: "content", Reason: "must not be empty"}
	}
	topic, err := trimmedField("topic", req.Topic)
	if err != nil {
		return dto.PostDTO{}, err
	}
	tone, err := trimmedField("tone", req.Tone)
	if err != nil {
		return dto.PostDTO{}, err
	}
	p, err := s.posts.Update(ctx, uid, oid, repositories.PostUpdate{Content: req.Content, Topic: topic, Tone: tone})
	if err != nil {
		return dto.PostDTO{}, mapStoreErr(err)
	}
	s.publish(ctx, events.PostSaved, *p)
	return dto.NewPostDTO(*p), nil
}

// trimmedField 는 지정된 값만 검사한다. nil 이면 변경하지 않는다.
func trimmedField(name string, v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil, &flows.ValidationError{Flow: "updatePost", Field: name, Reason: "must not be empty"}
	}
	return &t, nil
}

func (s *PostService) Delete(ctx context.Context, uid, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, uid, oid); err != nil {
		return mapStoreErr(err)
	}
	s.publish(ctx, events.PostDeleted, models.Post{ID: oid, OwnerID: uid})
	return nil
}

// RegenerateInPlace 는 저장된 게시물의 본문을 재생성 결과로 교체한다.
func (s *PostService) RegenerateInPlace(ctx context.Context, uid, id string) (dto.PostDTO, error) {
	p, err := s.find(ctx, uid, id)
	if err != nil {
		return dto.PostDTO{}, err
	}
	out, err := s.regenerator.Regenerate(ctx, uid, flows.RegenerationRequest{
		OriginalPost: p.Content,
		Topic:        p.Topic,
		Tone:         p.Tone,
	})
	if err != nil {
		return dto.PostDTO{}, err
	}
	updated, err := s.posts.Update(ctx, uid, p.ID, repositories.PostUpdate{Content: &out.RegeneratedPost})
	if err != nil {
		return dto.PostDTO{}, mapStoreErr(err)
	}
	s.publish(ctx, events.PostSaved, *updated)
	return dto.NewPostDTO(*updated), nil
}

// Schedule 은 게시물을 미래 시각에 예약한다. 발행된 게시물은 예약할 수 없다.
func (s *PostService) Schedule(ctx context.Context, uid, id string, at time.Time) (dto.PostDTO, error) {
	oid, err := parseID(id)
	if err != nil {
		return dto.PostDTO{}, err
	}
	if at.IsZero() || !at.After(s.now()) {
		return dto.PostDTO{}, &flows.ValidationError{Flow: "schedulePost", Field: "scheduled_at", Reason: "must be in the future"}
	}
	p, err := s.posts.Schedule(ctx, uid, oid, at.UTC())
	if err != nil {
		return dto.PostDTO{}, s.transitionErr(ctx, uid, oid, err)
	}
	s.publish(ctx, events.PostScheduled, *p)
	return dto.NewPostDTO(*p), nil
}

func (s *PostService) Unschedule(ctx context.Context, uid, id string) (dto.PostDTO, error) {
	oid, err := parseID(id)
	if err != nil {
		return dto.PostDTO{}, err
	}
	p, err := s.posts.Unschedule(ctx, uid, oid)
	if err != nil {
		return dto.PostDTO{}, s.transitionErr(ctx, uid, oid, err)
	}
	s.publish(ctx, events.PostUnscheduled, *p)
	return dto.NewPostDTO(*p), nil
}

// Calendar 는 [from, to) 사이에 예약된 게시물을 시간순으로 반환한다.
func (s *PostService) Calendar(ctx context.Context, uid string, from, to time.Time) (dto.CalendarDTO, error) {
	if !to.After(from) {
		return dto.CalendarDTO{}, &flows.ValidationError{Flow: "calendar", Field: "to", Reason: "must be after from"}
	}
	if to.Sub(from) > maxCalendarRange {
		return dto.CalendarDTO{}, &flows.ValidationError{Flow: "calendar", Field: "to", Reason: "range must not exceed 92 days"}
	}
	posts, err := s.posts.ListScheduledBetween(ctx, uid, from.UTC(), to.UTC())
	if err != nil {
		return dto.CalendarDTO{}, err
	}
	return dto.CalendarDTO{From: from.UTC(), To: to.UTC(), Posts: dto.NewPostDTOs(posts)}, nil
}

func (s *PostService) Preview(ctx context.Context, uid, id string) (dto.PreviewDTO, error) {
	p, err := s.find(ctx, uid, id)
	if err != nil {
		return dto.PreviewDTO{}, err
	}
	html, err := render.PreviewHTML(p.Content)
	if err != nil {
		return dto.PreviewDTO{}, err
	}
	return dto.PreviewDTO{ID: p.ID.Hex(), HTML: html}, nil
}

func (s *PostService) find(ctx context.Context, uid, id string) (*models.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	p, err := s.posts.FindByID(ctx, uid, oid)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return p, nil
}

// transitionErr 는 상태 조건으로 매칭되지 않은 경우를 "없음" 과 "상태 불가" 로 구분한다.
func (s *PostService) transitionErr(ctx context.Context, uid string, oid primitive.ObjectID, err error) error {
	if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	if _, findErr := s.posts.FindByID(ctx, uid, oid); findErr == nil {
		return ErrPostNotSchedulable
	}
	return ErrPostNotFound
}

func (s *PostService) publish(ctx context.Context, t events.EventType, p models.Post) {
	if err := s.dispatcher.PublishPost(ctx, t, p); err != nil {
		config.Logger.Warnf("failed to publish %s for post %s: %v", t, p.ID.Hex(), err)
	}
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrPostNotFound
	}
	return oid, nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrPostNotFound
	}
	return err
}
