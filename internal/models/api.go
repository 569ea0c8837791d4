package models

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the access token and the profile the app caches.
type LoginResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	ChatToken string `json:"chatToken"`
}

// AvatarRequest is the body of POST /api/users/:id/avatar.
type AvatarRequest struct {
	Avatar string `json:"avatar" binding:"required"`
}

// ChatTokenRequest is the body of POST /chat/token.
type ChatTokenRequest struct {
	UserID string `json:"userId"`
}

// LocateRequest is the body of POST /api/locate.
type LocateRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// LocateResponse is the body returned by POST /api/locate.
type LocateResponse struct {
	Label string `json:"label"`
}
