package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"post-pilot/cmd/api/trace"
	"post-pilot/config"
	"post-pilot/flows"
	"post-pilot/llm"
	"post-pilot/metrics"
	"post-pilot/models"
	"post-pilot/quota"
	"post-pilot/repositories"
)

// FlowService 는 세 가지 AI 플로우(생성/재생성/요약)를 사용자 한도와 함께 실행한다.
type FlowService struct {
	model     llm.Model
	users     UserStore
	limiter   Limiter
	usage     UsageRecorder
	metrics   *metrics.Metrics
	freeLimit int
}

func NewFlowService(model llm.Model, users UserStore, limiter Limiter, usage UsageRecorder, m *metrics.Metrics, freeLimit int) *FlowService {
	if freeLimit <= 0 {
		freeLimit = quota.DefaultFreePostLimit
	}
	return &FlowService{
		model:     model,
		users:     users,
		limiter:   limiter,
		usage:     usage,
		metrics:   m,
		freeLimit: freeLimit,
	}
}

// Generate 는 새 게시물을 생성한다. 모델 호출 전에 post_count 를 원자적으로 1 예약하고,
// 호출이 실패하면 예약을 되돌린다.
func (s *FlowService) Generate(ctx context.Context, uid string, req flows.GenerationRequest) (flows.GenerationResult, error) {
	reserved := false
	out, err := runFlow(ctx, s, uid, flows.GeneratePost, req, func(ctx context.Context, uid string) error {
		if err := s.reservePost(ctx, uid); err != nil {
			return err
		}
		reserved = true
		return nil
	})
	if err != nil && reserved {
		s.refundPost(ctx, uid)
	}
	return out, err
}

// Regenerate 는 기존 게시물의 새 버전을 만든다. 무료 한도는 확인하지만 차감하지 않는다.
func (s *FlowService) Regenerate(ctx context.Context, uid string, req flows.RegenerationRequest) (flows.RegenerationResult, error) {
	out, err := runFlow(ctx, s, uid, flows.RegeneratePost, req, s.checkFreeQuota)
	if err != nil {
		return out, err
	}
	if strings.TrimSpace(out.RegeneratedPost) == strings.TrimSpace(req.OriginalPost) {
		config.Logger.Warnf("regeneratePost returned the original post unchanged (uid=%s)", uid)
	}
	return out, nil
}

// Summarize 는 게시물 목록의 요약과 개선 제안을 만든다.
func (s *FlowService) Summarize(ctx context.Context, uid string, req flows.SummaryRequest) (flows.SummaryResult, error) {
	return runFlow(ctx, s, uid, flows.SummarizePosts, req, nil)
}

// checkFreeQuota 는 무료 플랜 사용자가 한도에 도달했으면 모델 호출 전에 거부한다. 차감하지 않는다.
func (s *FlowService) checkFreeQuota(ctx context.Context, uid string) error {
	u, err := s.users.FindByUID(ctx, uid)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load user %s: %w", uid, err)
	}
	plan := u.Plan
	if plan == "" {
		plan = models.PlanFree
	}
	if quota.Exhausted(plan, u.PostCount, s.freeLimit) {
		return ErrFreeQuotaExhausted
	}
	return nil
}

func (s *FlowService) reservePost(ctx context.Context, uid string) error {
	ok, err := s.users.ReservePost(ctx, uid, s.freeLimit)
	if err != nil {
		return fmt.Errorf("reserve post for %s: %w", uid, err)
	}
	if !ok {
		return ErrFreeQuotaExhausted
	}
	return nil
}

// refundPost 는 실패한 생성의 예약분을 되돌린다. 요청이 취소되어도 반영되어야 한다.
func (s *FlowService) refundPost(ctx context.Context, uid string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), usageWriteTimeout)
	defer cancel()
	if err := s.users.IncrementPostCount(ctx, uid, -1); err != nil {
		fields := trace.Fields(ctx)
		fields["uid"] = uid
		fields["error"] = err.Error()
		config.ErrorWithFields("failed to refund post count", fields)
	}
}

// runFlow: 입력 검증 → gate(한도) → rate limit → 모델 호출 → 사용량 기록/메트릭
func runFlow[In flows.Input, Out any](
	ctx context.Context,
	s *FlowService,
	uid string,
	def *flows.Definition[In, Out],
	in In,
	gate func(ctx context.Context, uid string) error,
) (Out, error) {
	var zero Out

	if err := def.Validate(in); err != nil {
		s.metrics.RecordFlow(ctx, def.Name, "invalid_input", 0, 0)
		return zero, err
	}
	if gate != nil {
		if err := gate(ctx, uid); err != nil {
			if errors.Is(err, ErrFreeQuotaExhausted) {
				s.metrics.RecordFlow(ctx, def.Name, "quota", 0, 0)
			}
			return zero, err
		}
	}

	ok, err := s.limiter.WaitAndReserve(ctx)
	if err != nil {
		return zero, err
	}
	if !ok {
		s.metrics.RecordFlow(ctx, def.Name, "rate_limited", 0, 0)
		return zero, ErrRateLimited
	}

	ctx, span := trace.StartFlow(ctx, def.Name, uid)
	out, inv, err := def.Run(ctx, s.model, in)
	if inv != nil {
		s.usage.Record(ctx, newAILog(uid, span.RequestID, s.model.Name(), inv, err))
	}

	outcome := "ok"
	if err != nil {
		outcome = "model_error"
	}
	var duration time.Duration
	var tokens int64
	if inv != nil {
		duration = inv.FinishedAt.Sub(inv.StartedAt)
		tokens = inv.Response.Usage.TotalTokens
	}
	s.metrics.RecordFlow(ctx, def.Name, outcome, duration, tokens)

	fields := span.Fields()
	fields["duration_ms"] = duration.Milliseconds()
	fields["tokens"] = tokens
	if err != nil {
		fields["error"] = err.Error()
		config.ErrorWithFields("flow failed", fields)
		return zero, err
	}
	config.InfoWithFields("flow completed", fields)
	return out, nil
}

func newAILog(uid, requestID, modelName string, inv *flows.Invocation, runErr error) models.AILog {
	log := models.AILog{
		ID:             primitive.NewObjectID(),
		Flow:           inv.Flow,
		UserID:         uid,
		RequestID:      requestID,
		ModelName:      inv.Response.ModelName,
		ModelVersion:   inv.Response.ModelVersion,
		InputTokens:    inv.Response.Usage.InputTokens,
		OutputTokens:   inv.Response.Usage.OutputTokens,
		TotalTokens:    inv.Response.Usage.TotalTokens,
		DurationMs:     inv.FinishedAt.Sub(inv.StartedAt).Milliseconds(),
		InputPrompt:    inv.Prompt,
		OutputResponse: inv.Response.Text,
		RequestedAt:    inv.StartedAt,
		CompletedAt:    inv.FinishedAt,
	}
	if log.ModelName == "" {
		log.ModelName = modelName
	}
	if runErr != nil {
		msg := runErr.Error()
		log.ErrorMessage = &msg
	}
	return log
}
