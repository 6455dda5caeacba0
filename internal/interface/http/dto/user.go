package dto

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=50" example:"gopher"`
	Email    string `json:"email" binding:"required,email" example:"gopher@example.com"`
	Password string `json:"password" binding:"required,min=8,max=20" example:"pass1234"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"gopher@example.com"`
	Password string `json:"password" binding:"required" example:"pass1234"`
}

// UserResponse 用户信息（不含密码）
type UserResponse struct {
	ID    uint   `json:"id" example:"1"`
	Name  string `json:"name" example:"gopher"`
	Email string `json:"email" example:"gopher@example.com"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int64        `json:"expiresIn" example:"7200"`
}
