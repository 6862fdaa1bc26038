package services

import "errors"

var (
	ErrFreeQuotaExhausted = errors.New("free_quota_exhausted")
	ErrRateLimited        = errors.New("rate_limited")
	ErrPostNotFound       = errors.New("post_not_found")
	// ErrPostNotSchedulable 는 이미 발행된 게시물을 예약/해제하려는 경우다.
	ErrPostNotSchedulable = errors.New("post_not_schedulable")
)
