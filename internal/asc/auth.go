package asc

import (
	"crypto/ecdsa"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/plexatic/storeconnect/internal/errs"
)

const (
	jwtAudience     = "appstoreconnect-v1"
	jwtTTL          = 20 * time.Minute
	jwtEarlyRenewal = 30 * time.Second
)

// KeyConfig identifies an App Store Connect API key. KeyType is "team"
// (default) or "individual"; individual keys sign with a subject instead
// of an issuer.
type KeyConfig struct {
	KeyID          string
	IssuerID       string
	PrivateKeyPath string
	KeyType        string
	Subject        string
	Scope          []string
}

// TokenSource mints ES256-signed bearer tokens for the App Store Connect
// API and caches them until shortly before expiry, so a pagination run
// does not re-sign per page.
type TokenSource struct {
	cfg KeyConfig

	mu     sync.Mutex
	key    *ecdsa.PrivateKey
	token  string
	expiry time.Time
	now    func() time.Time
}

// NewTokenSource validates the key configuration and returns a token
// source. The private key file is read lazily on first use.
func NewTokenSource(cfg KeyConfig) (*TokenSource, error) {
	var missing []string
	if cfg.KeyID == "" {
		missing = append(missing, "APP_STORE_KEY_ID")
	}
	if cfg.IssuerID == "" {
		missing = append(missing, "APP_STORE_ISSUER_ID")
	}
	if cfg.PrivateKeyPath == "" {
		missing = append(missing, "APP_STORE_PRIVATE_KEY_PATH")
	}
	if len(missing) > 0 {
		return nil, errs.New(errs.KindConfiguration,
			"missing required environment variables: %s", strings.Join(missing, ", ")).
			With("missing_variables", missing)
	}

	keyType := cfg.KeyType
	if keyType == "" {
		keyType = "team"
	}
	keyType = strings.ToLower(keyType)
	if keyType != "team" && keyType != "individual" {
		return nil, errs.New(errs.KindConfiguration,
			"APP_STORE_KEY_TYPE must be \"team\" or \"individual\", got %q", cfg.KeyType)
	}
	cfg.KeyType = keyType

	return &TokenSource{cfg: cfg, now: time.Now}, nil
}

// Token returns a bearer token, reusing the cached one while it has more
// than the early-renewal margin left.
func (ts *TokenSource) Token() (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	now := ts.now()
	if ts.token != "" && now.Before(ts.expiry.Add(-jwtEarlyRenewal)) {
		return ts.token, nil
	}

	if ts.key == nil {
		key, err := loadPrivateKey(ts.cfg.PrivateKeyPath)
		if err != nil {
			return "", err
		}
		ts.key = key
	}

	expiry := now.Add(jwtTTL)
	claims := jwt.MapClaims{
		"iat": now.Unix(),
		"exp": expiry.Unix(),
		"aud": jwtAudience,
	}
	if ts.cfg.KeyType == "individual" {
		subject := ts.cfg.Subject
		if subject == "" {
			subject = "user"
		}
		claims["sub"] = subject
	} else {
		claims["iss"] = ts.cfg.IssuerID
	}
	if len(ts.cfg.Scope) > 0 {
		claims["scope"] = ts.cfg.Scope
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	tok.Header["kid"] = ts.cfg.KeyID

	signed, err := tok.SignedString(ts.key)
	if err != nil {
		return "", errs.Wrap(errs.KindAuth, err, "failed to sign App Store Connect token")
	}

	ts.token = signed
	ts.expiry = expiry
	return signed, nil
}

func loadPrivateKey(path string) (*ecdsa.PrivateKey, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.KindConfiguration, err,
			"cannot read private key file %s", path).With("path", path)
	}
	key, err := jwt.ParseECPrivateKeyFromPEM(pem)
	if err != nil {
		return nil, errs.Wrap(errs.KindConfiguration, err,
			"private key file %s is not a valid EC key", path).With("path", path)
	}
	return key, nil
}
