package token

import "time"

// Maker creates and verifies access tokens.
type Maker interface {
	CreateToken(email, role string, duration time.Duration) (string, error)

	VerifyToken(token string) (*Payload, error)
}
