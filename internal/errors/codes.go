package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED"  // 로그인 필요
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED" // 토큰 만료
	AuthTokenInvalid = "AUTH_TOKEN_INVALID" // 잘못된 토큰

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"     // 접근 권한 없음
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"    // 본인만 가능
	AuthzUserMismatch = "AUTHZ_USER_MISMATCH" // 세션 사용자와 요청 사용자 불일치

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // 잘못된 입력
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // 잘못된 ID
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE" // 범위 초과
	ValidationTooLong      = "VALIDATION_TOO_LONG"      // 너무 길음
	ValidationRequired     = "VALIDATION_REQUIRED"      // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"       // 충돌

	// ==================== 리뷰 (REVIEW_) ====================
	ReviewNotFound              = "REVIEW_NOT_FOUND"              // 리뷰 없음 또는 권한 없음
	ReviewInvalidRating         = "REVIEW_INVALID_RATING"         // 잘못된 평점
	ReviewInvalidRecommendation = "REVIEW_INVALID_RECOMMENDATION" // 잘못된 추천 등급

	// ==================== 댓글 (COMMENT_) ====================
	CommentNotFound = "COMMENT_NOT_FOUND" // 댓글 없음 또는 권한 없음

	// ==================== 프로필 (PROFILE_) ====================
	ProfileNotFound = "PROFILE_NOT_FOUND" // 프로필 없음

	// ==================== 업로드 (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // 잘못된 파일 형식
	UploadFailed          = "UPLOAD_FAILED"            // 업로드 실패

	// ==================== 저장소 (STORAGE_) ====================
	StorageUnavailable = "STORAGE_UNAVAILABLE" // 모든 저장소 계층 실패

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // 외부 API 오류
)
