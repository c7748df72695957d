package schemas

// AuthDataSchema is the plaintext of the encrypted auth_data cookie
type AuthDataSchema struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
	Salt   string `json:"salt"`
}
