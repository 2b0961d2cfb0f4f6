package envoy_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	envoy "github.com/loafoe/envoy-influx"
)

func digestChallenge(t *testing.T, header string) *envoy.Challenge {
	t.Helper()
	ch, err := envoy.ParseChallenge(header)
	require.NoError(t, err)
	return ch
}

func signedJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"aud":      "122233334444",
		"iss":      "Entrez",
		"username": "foo",
		"exp":      exp.Unix(),
	})
	raw, err := token.SignedString([]byte("bogus"))
	require.NoError(t, err)
	return raw
}

func TestRespondDigestDeterministic(t *testing.T) {
	ch := digestChallenge(t, testChallenge+`, opaque="op4que"`)
	creds := envoy.Credentials{Username: testUsername, Password: testPassword}

	first, err := envoy.Respond(ch, creds, envoy.HandshakeMethod, envoy.HandshakeURI)
	require.NoError(t, err)
	second, err := envoy.Respond(ch, creds, envoy.HandshakeMethod, envoy.HandshakeURI)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, envoy.SchemeDigest, first.Scheme())
	value := first.String()
	assert.Contains(t, value, `Digest username="installer"`)
	assert.Contains(t, value, `realm="enphaseenergy.com"`)
	assert.Contains(t, value, `uri="*"`)
	assert.Contains(t, value, "qop=auth")
	assert.Contains(t, value, "nc=00000001")
	assert.Contains(t, value, `opaque="op4que"`)
}

func TestRespondDigestDependsOnInputs(t *testing.T) {
	creds := envoy.Credentials{Username: testUsername, Password: testPassword}
	a, err := envoy.Respond(digestChallenge(t, `Digest realm="r", nonce="one"`), creds, "GET", "*")
	require.NoError(t, err)
	b, err := envoy.Respond(digestChallenge(t, `Digest realm="r", nonce="two"`), creds, "GET", "*")
	require.NoError(t, err)
	c, err := envoy.Respond(digestChallenge(t, `Digest realm="r", nonce="one"`), envoy.Credentials{Username: testUsername, Password: "other"}, "GET", "*")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestRespondDigestAlgorithms(t *testing.T) {
	creds := envoy.Credentials{Username: testUsername, Password: testPassword}
	for _, alg := range []string{"MD5", "md5-sess", "SHA-256", "SHA-256-sess", "SHA-512-256"} {
		token, err := envoy.Respond(digestChallenge(t, `Digest realm="r", nonce="n", qop="auth", algorithm=`+alg), creds, "GET", "*")
		require.NoError(t, err, alg)
		assert.Contains(t, token.String(), "algorithm="+alg)
	}
}

func TestRespondBasic(t *testing.T) {
	token, err := envoy.Respond(&envoy.Challenge{Scheme: envoy.SchemeBasic}, envoy.Credentials{Username: "Aladdin", Password: "open sesame"}, "GET", "*")
	require.NoError(t, err)
	assert.Equal(t, "Basic QWxhZGRpbjpvcGVuIHNlc2FtZQ==", token.String())
	assert.Equal(t, envoy.SchemeBasic, token.Scheme())
}

func TestRespondBearer(t *testing.T) {
	raw := signedJWT(t, time.Now().Add(time.Hour))
	token, err := envoy.Respond(&envoy.Challenge{Scheme: envoy.SchemeBearer}, envoy.Credentials{Username: "owner", Password: raw}, "GET", "*")
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+raw, token.String())

	_, err = envoy.Respond(&envoy.Challenge{Scheme: envoy.SchemeBearer}, envoy.Credentials{Username: "owner", Password: "not-a-jwt"}, "GET", "*")
	assert.ErrorIs(t, err, envoy.ErrUnsupportedScheme)
}

func TestRespondUnsupported(t *testing.T) {
	creds := envoy.Credentials{Username: testUsername, Password: testPassword}

	_, err := envoy.Respond(&envoy.Challenge{Scheme: "Negotiate"}, creds, "GET", "*")
	assert.ErrorIs(t, err, envoy.ErrUnsupportedScheme)

	_, err = envoy.Respond(nil, creds, "GET", "*")
	assert.ErrorIs(t, err, envoy.ErrUnsupportedScheme)

	_, err = envoy.Respond(digestChallenge(t, `Digest realm="r", nonce="n", algorithm=SHA3-256`), creds, "GET", "*")
	assert.ErrorIs(t, err, envoy.ErrUnsupportedScheme)

	_, err = envoy.Respond(digestChallenge(t, `Digest realm="r", nonce="n", qop="auth-int"`), creds, "GET", "*")
	assert.ErrorIs(t, err, envoy.ErrUnsupportedScheme)
}

func TestTokenZero(t *testing.T) {
	assert.True(t, envoy.Token{}.IsZero())
	token, err := envoy.Respond(&envoy.Challenge{Scheme: envoy.SchemeBasic}, envoy.Credentials{Username: "a", Password: "b"}, "GET", "*")
	require.NoError(t, err)
	assert.False(t, token.IsZero())
}
