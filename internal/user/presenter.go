package user

// Response bodies are shaped here so handlers never serialize User directly.

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type loginResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
	UserID      int64  `json:"user_id"`
	Email       string `json:"email"`
}

type profileResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func toLoginResponse(result LoginResult) loginResponse {
	return loginResponse{
		Message:     "Login successful",
		AccessToken: result.AccessToken,
		UserID:      result.User.ID,
		Email:       result.User.Email,
	}
}

func toProfileResponse(user User) profileResponse {
	return profileResponse{ID: user.ID, Email: user.Email}
}
