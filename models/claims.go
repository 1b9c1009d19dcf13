package models

import (
	jwt "github.com/dgrijalva/jwt-go"
)

// APIClaims are the JWT claims carried by spectator/API tokens.
type APIClaims struct {
	Scope string `json:"scope"`
	jwt.StandardClaims
}
