package envoy

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenExpiry returns the 'exp' claim of a gateway JWT without verifying
// its signature; the gateway does that.
func TokenExpiry(rawToken string) (time.Time, error) {
	token, err := parseUnverified(rawToken)
	if err != nil {
		return time.Time{}, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid or missing claims")
	}
	unixTs, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid or missing 'exp' claim: %+v", claims)
	}
	return time.Unix(int64(unixTs), 0).UTC(), nil
}

func parseUnverified(rawToken string) (*jwt.Token, error) {
	token, _, err := new(jwt.Parser).ParseUnverified(rawToken, jwt.MapClaims{})
	return token, err
}
