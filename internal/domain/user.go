package domain

// User is the public profile returned by the marketplace API
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /register
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by a successful login
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// RegisterResponse carries the id of the created user
type RegisterResponse struct {
	UserID string `json:"userId"`
}

// Profile is the GET /me payload
type Profile struct {
	User
	Cards []UserCard `json:"cards,omitempty"`
}
