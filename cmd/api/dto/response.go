package dto

// ErrorResponseDTO 는 공통 에러 응답 형식이다.
type ErrorResponseDTO struct {
	Error string `json:"error" example:"free_quota_exhausted"`
}

// ValidationErrorDTO 는 입력 검증 실패 응답이다. 어떤 필드가 왜 거부됐는지 포함한다.
type ValidationErrorDTO struct {
	Error  string `json:"error" example:"validation_failed"`
	Field  string `json:"field" example:"topic"`
	Reason string `json:"reason" example:"must be at least 5 characters"`
}

type MessageResponseDTO struct {
	Message string `json:"message" example:"post_deleted"`
}
