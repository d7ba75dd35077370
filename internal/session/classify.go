package session

import (
	"net/http"

	"commute-harmony/internal/ai"
)

// Display messages, one per error class.
const (
	MessageCredentialMissing = "API 키가 설정되지 않았습니다. 관리자에게 문의해 주세요."
	MessageModelUnavailable  = "추천 모델을 지금은 사용할 수 없습니다. 잠시 후 다시 시도해 주세요."
	MessageUnauthorized      = "API 키에 권한이 없습니다. 설정을 확인해 주세요."
	MessageRateLimited       = "요청이 너무 많습니다. 잠시 후 다시 시도해 주세요."
	MessageEmptyResponse     = "AI가 추천 결과를 보내지 않았습니다. 다시 시도해 주세요."
	MessageMalformedResponse = "추천 결과를 해석하지 못했습니다. 다시 시도해 주세요."
	MessageUnexpected        = "음악 추천을 가져오는 중 오류가 발생했습니다. 잠시 후 다시 시도해 주세요."
)

// Classify picks the display message for a failed fetch. Cases are ordered
// and the first match wins.
func Classify(err error) string {
	status, hasStatus := ai.StatusOf(err)
	switch {
	case ai.KindOf(err) == ai.KindCredentialMissing:
		return MessageCredentialMissing
	case hasStatus && status == http.StatusNotFound:
		return MessageModelUnavailable
	case hasStatus && (status == http.StatusForbidden || status == http.StatusUnauthorized):
		return MessageUnauthorized
	case hasStatus && status == http.StatusTooManyRequests:
		return MessageRateLimited
	case ai.KindOf(err) == ai.KindEmptyResponse:
		return MessageEmptyResponse
	case ai.KindOf(err) == ai.KindMalformedResponse:
		return MessageMalformedResponse
	default:
		return MessageUnexpected
	}
}
