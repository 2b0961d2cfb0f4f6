package envoy

import (
	"fmt"
	"strings"
)

const (
	SchemeDigest = "Digest"
	SchemeBasic  = "Basic"
	SchemeBearer = "Bearer"
)

// Challenge is a parsed WWW-Authenticate header. It only lives long enough
// to produce a Token.
type Challenge struct {
	Scheme    string
	Realm     string
	Nonce     string
	Opaque    string
	Algorithm string
	QOP       []string
	Charset   string
	Userhash  bool

	// Params holds every auth-param with its name lowercased.
	Params map[string]string
}

// ParseChallenge parses the value of a WWW-Authenticate header. Only the
// schemes Respond knows how to answer are accepted.
func ParseChallenge(header string) (*Challenge, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, fmt.Errorf("%w: empty header", ErrMalformedChallenge)
	}
	rawScheme, rest, _ := strings.Cut(header, " ")
	scheme, ok := canonicalScheme(rawScheme)
	if !ok {
		return nil, fmt.Errorf("%w: scheme %q", ErrMalformedChallenge, rawScheme)
	}
	params, err := parseAuthParams(rest)
	if err != nil {
		return nil, err
	}

	ch := &Challenge{
		Scheme:    scheme,
		Realm:     params["realm"],
		Nonce:     params["nonce"],
		Opaque:    params["opaque"],
		Algorithm: params["algorithm"],
		Charset:   params["charset"],
		Userhash:  strings.EqualFold(params["userhash"], "true"),
		Params:    params,
	}
	if qop, ok := params["qop"]; ok {
		for _, q := range strings.Split(qop, ",") {
			if q = strings.TrimSpace(q); q != "" {
				ch.QOP = append(ch.QOP, strings.ToLower(q))
			}
		}
	}
	if ch.Scheme == SchemeDigest && ch.Nonce == "" {
		return nil, fmt.Errorf("%w: digest challenge without nonce", ErrMalformedChallenge)
	}
	return ch, nil
}

func canonicalScheme(s string) (string, bool) {
	switch strings.ToLower(s) {
	case "digest":
		return SchemeDigest, true
	case "basic":
		return SchemeBasic, true
	case "bearer":
		return SchemeBearer, true
	}
	return "", false
}

func parseAuthParams(s string) (map[string]string, error) {
	params := make(map[string]string)
	for {
		s = strings.TrimLeft(s, " \t,")
		if s == "" {
			return params, nil
		}
		eq := strings.IndexByte(s, '=')
		if eq <= 0 {
			return nil, fmt.Errorf("%w: expected name=value near %q", ErrMalformedChallenge, s)
		}
		name := strings.ToLower(strings.TrimSpace(s[:eq]))
		if name == "" || strings.ContainsAny(name, " \t\",") {
			return nil, fmt.Errorf("%w: bad parameter name near %q", ErrMalformedChallenge, s)
		}
		s = strings.TrimLeft(s[eq+1:], " \t")

		var value string
		if strings.HasPrefix(s, `"`) {
			var err error
			value, s, err = readQuoted(s[1:])
			if err != nil {
				return nil, err
			}
		} else {
			end := strings.IndexAny(s, ", \t")
			if end < 0 {
				end = len(s)
			}
			value, s = s[:end], s[end:]
			if value == "" {
				return nil, fmt.Errorf("%w: empty value for %q", ErrMalformedChallenge, name)
			}
		}
		params[name] = value

		s = strings.TrimLeft(s, " \t")
		if s != "" && s[0] != ',' {
			return nil, fmt.Errorf("%w: unexpected %q after %q", ErrMalformedChallenge, s, name)
		}
	}
}

// readQuoted reads a quoted-string body (opening quote already consumed)
// and returns the unescaped value and whatever follows the closing quote.
func readQuoted(s string) (string, string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			i++
			if i == len(s) {
				return "", "", fmt.Errorf("%w: dangling escape", ErrMalformedChallenge)
			}
			b.WriteByte(s[i])
		case '"':
			return b.String(), s[i+1:], nil
		default:
			b.WriteByte(c)
		}
	}
	return "", "", fmt.Errorf("%w: unterminated quoted string", ErrMalformedChallenge)
}
