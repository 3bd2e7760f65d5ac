package domain

type CtxKey string

const (
	KeyUserID      CtxKey = "UserID"
	KeyUserEmail   CtxKey = "Email"
	KeyAccessToken CtxKey = "AccessToken"
	KeyClaims      CtxKey = "Claims"
)
