package request

// CompleteLoginRequest carries the session token issued by the login flow.
// The token may also come as a bearer Authorization header.
type CompleteLoginRequest struct {
	Token string `json:"token"`
}
