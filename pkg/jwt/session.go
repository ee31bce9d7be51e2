package jwt

import (
	"strconv"
	"time"
)

// SessionTTL is the fixed lifetime of session tokens: expiry is always issue
// time plus one hour.
const SessionTTL = time.Hour

// SessionClaims are the identity claims carried by a session token. The
// subject duplicates the numeric user id in string form per JWT convention.
type SessionClaims struct {
	StandardClaims
	UserID int64  `json:"id"`
	Email  string `json:"email"`
}

// IssueSession mints a session token for the given user. The issued-at
// timestamp is set to now and expiry to exactly now + SessionTTL.
func (s *Service) IssueSession(userID int64, email string) (string, error) {
	now := time.Now()
	return s.Generate(SessionClaims{
		StandardClaims: StandardClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(SessionTTL).Unix(),
		},
		UserID: userID,
		Email:  email,
	})
}

// VerifySession validates a session token and returns its claims. Expired or
// tampered tokens never yield partially-trusted claims.
func (s *Service) VerifySession(tokenString string) (SessionClaims, error) {
	var claims SessionClaims
	if err := s.Parse(tokenString, &claims); err != nil {
		return SessionClaims{}, err
	}
	return claims, nil
}
