package envoy

import (
	"crypto/md5"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/icholy/digest"
)

const (
	// The handshake is always signed for this method/URI pair. The gateway
	// accepts the resulting header on every other path too.
	HandshakeMethod = http.MethodGet
	HandshakeURI    = "*"

	digestNonceCount = 1
)

// Credentials are the installer (or owner) login for the gateway. For the
// Bearer scheme Password holds the JWT.
type Credentials struct {
	Username string
	Password string
}

// Token is a ready to use Authorization header value. It is computed once
// and never changes.
type Token struct {
	scheme string
	value  string
}

// Scheme returns the authentication scheme the token was built for.
func (t Token) Scheme() string {
	return t.scheme
}

// String returns the Authorization header value.
func (t Token) String() string {
	return t.value
}

func (t Token) IsZero() bool {
	return t.value == ""
}

// Respond computes the Authorization header answering ch. It does no I/O
// and returns the same Token for the same inputs.
func Respond(ch *Challenge, creds Credentials, method, uri string) (Token, error) {
	if ch == nil {
		return Token{}, fmt.Errorf("%w: no challenge", ErrUnsupportedScheme)
	}
	switch ch.Scheme {
	case SchemeDigest:
		h, err := digestHasher(ch.Algorithm)
		if err != nil {
			return Token{}, err
		}
		value, err := digestAuthorization(ch, creds, method, uri, digestCnonce(h, ch, creds))
		if err != nil {
			return Token{}, err
		}
		return Token{scheme: SchemeDigest, value: value}, nil
	case SchemeBasic:
		raw := creds.Username + ":" + creds.Password
		return Token{scheme: SchemeBasic, value: "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))}, nil
	case SchemeBearer:
		if _, err := parseUnverified(creds.Password); err != nil {
			return Token{}, fmt.Errorf("%w: bearer challenge needs a JWT as password: %v", ErrUnsupportedScheme, err)
		}
		return Token{scheme: SchemeBearer, value: "Bearer " + creds.Password}, nil
	}
	return Token{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, ch.Scheme)
}

type hasher struct {
	sum func(string) string
	// base is the algorithm name without its -sess suffix.
	base string
	sess bool
}

func digestHasher(algorithm string) (hasher, error) {
	h := hasher{base: algorithm}
	if n := len(algorithm) - len("-sess"); n >= 0 && strings.EqualFold(algorithm[n:], "-sess") {
		h.base, h.sess = algorithm[:n], true
	}
	switch strings.ToUpper(h.base) {
	case "", "MD5":
		h.sum = func(s string) string {
			b := md5.Sum([]byte(s))
			return hex.EncodeToString(b[:])
		}
	case "SHA-256":
		h.sum = func(s string) string {
			b := sha256.Sum256([]byte(s))
			return hex.EncodeToString(b[:])
		}
	case "SHA-512":
		h.sum = func(s string) string {
			b := sha512.Sum512([]byte(s))
			return hex.EncodeToString(b[:])
		}
	case "SHA-512-256":
		h.sum = func(s string) string {
			b := sha512.Sum512_256([]byte(s))
			return hex.EncodeToString(b[:])
		}
	default:
		return hasher{}, fmt.Errorf("%w: digest algorithm %q", ErrUnsupportedScheme, algorithm)
	}
	return h, nil
}

// digestCnonce derives the client nonce from the challenge so repeated
// handshakes with the same inputs produce the same header.
func digestCnonce(h hasher, ch *Challenge, creds Credentials) string {
	return h.sum(ch.Nonce + ":" + creds.Username)[:16]
}

func digestAuthorization(ch *Challenge, creds Credentials, method, uri, cnonce string) (string, error) {
	h, err := digestHasher(ch.Algorithm)
	if err != nil {
		return "", err
	}
	// auth-int would need the request body, which the handshake never has.
	if len(ch.QOP) > 0 && !slices.Contains(ch.QOP, "auth") {
		return "", fmt.Errorf("%w: digest qop %v", ErrUnsupportedScheme, ch.QOP)
	}
	if h.sess && len(ch.QOP) == 0 {
		return "", fmt.Errorf("%w: digest algorithm %q without qop", ErrUnsupportedScheme, ch.Algorithm)
	}

	opts := digest.Options{
		Method:   method,
		URI:      uri,
		Username: creds.Username,
		Password: creds.Password,
		Cnonce:   cnonce,
		Count:    digestNonceCount,
	}
	if h.sess {
		opts.A1 = h.sum(h.sum(creds.Username+":"+ch.Realm+":"+creds.Password) + ":" + ch.Nonce + ":" + cnonce)
	}
	cred, err := digest.Digest(&digest.Challenge{
		Realm:     ch.Realm,
		Nonce:     ch.Nonce,
		Opaque:    ch.Opaque,
		Algorithm: h.base,
		QOP:       ch.QOP,
		Charset:   ch.Charset,
		Userhash:  ch.Userhash,
	}, opts)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedScheme, err)
	}
	cred.Algorithm = ch.Algorithm
	return cred.String(), nil
}
