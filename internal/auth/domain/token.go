package domain

// TokenPair is what login and refresh return: the short-lived access token
// (JWT) and the opaque refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
