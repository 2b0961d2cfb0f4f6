package envoy_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	envoy "github.com/loafoe/envoy-influx"
)

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	got, err := envoy.TokenExpiry(signedJWT(t, exp))
	require.NoError(t, err)
	assert.Equal(t, exp, got)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"iss": "Entrez"}).SignedString([]byte("bogus"))
	require.NoError(t, err)
	_, err = envoy.TokenExpiry(noExp)
	assert.Error(t, err)

	_, err = envoy.TokenExpiry("garbage")
	assert.Error(t, err)
}
