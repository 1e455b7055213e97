package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

// ParseError 저장소/DB 에러를 사용자 친화적인 메시지와 코드로 변환
// 보안상 민감한 정보(쿼리, 호스트 등)는 숨긴다
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "서버 오류가 발생했습니다",
		}
	}

	errStrLower := strings.ToLower(err.Error())

	// 1. GORM 기본 에러
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. PostgreSQL / SQLite 제약 조건 위반
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}
	if strings.Contains(errStrLower, "violates not-null constraint") || strings.Contains(errStrLower, "not null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "필수 항목이 누락되었습니다"}
	}
	if strings.Contains(errStrLower, "check constraint") {
		if strings.Contains(errStrLower, "rating") {
			return ErrorInfo{Code: ReviewInvalidRating, Message: "평점은 1~10 사이의 값이어야 합니다"}
		}
		return ErrorInfo{Code: ValidationInvalidInput, Message: "입력값이 유효하지 않습니다"}
	}

	// 3. 네트워크/연결 에러
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") ||
		strings.Contains(errStrLower, "deadline exceeded") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "저장소 연결에 실패했습니다. 잠시 후 다시 시도해주세요",
		}
	}

	// 4. 기본 내부 서버 오류
	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// parseDuplicateKeyError Unique constraint 위반 에러 파싱
func parseDuplicateKeyError(errLower string) ErrorInfo {
	// (user_id, movie_id) 중복은 upsert가 흡수하므로 여기 도달하면 id 충돌
	if strings.Contains(errLower, "idx_reviews_user_movie") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "리뷰를 저장하는 중 충돌이 발생했습니다. 다시 시도해주세요",
		}
	}
	if strings.Contains(errLower, "pkey") || strings.Contains(errLower, "primary key") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "이미 존재하는 데이터입니다. 다시 시도해주세요",
		}
	}
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "이미 존재하는 데이터입니다",
	}
}

// getNotFoundMessage context에 따른 Not Found 메시지
func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "review") || strings.Contains(contextLower, "리뷰") {
		return "리뷰를 찾을 수 없거나 권한이 없습니다"
	}
	if strings.Contains(contextLower, "comment") || strings.Contains(contextLower, "댓글") {
		return "댓글을 찾을 수 없거나 권한이 없습니다"
	}
	if strings.Contains(contextLower, "profile") || strings.Contains(contextLower, "프로필") {
		return "프로필을 찾을 수 없습니다"
	}

	return "요청한 데이터를 찾을 수 없습니다"
}

// getDefaultErrorMessage context에 따른 기본 에러 메시지
func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") || strings.Contains(contextLower, "save") || strings.Contains(contextLower, "등록") {
		return "저장 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	}
	if strings.Contains(contextLower, "update") || strings.Contains(contextLower, "수정") {
		return "수정 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	}
	if strings.Contains(contextLower, "delete") || strings.Contains(contextLower, "삭제") {
		return "삭제 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	}

	return "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
}

// ParseAndRespond 에러를 파싱하여 응답 반환 (헬퍼 함수)
// controller에서 간편하게 사용할 수 있도록
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
