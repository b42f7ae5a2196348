package socialAuth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"lefri/models"

	"github.com/golang-jwt/jwt/v4"
)

// GoogleCertsURL serves Google's current signing keys as JWKs.
const GoogleCertsURL = "https://www.googleapis.com/oauth2/v3/certs"

const keysTTL = time.Hour

// minRefetch bounds how often an unknown kid can force a key refresh.
const minRefetch = time.Minute

// GoogleJWK represents a single JSON Web Key from Google's keys endpoint.
type GoogleJWK struct {
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// GoogleJWKResponse represents the response from Google's keys endpoint.
type GoogleJWKResponse struct {
	Keys []GoogleJWK `json:"keys"`
}

// TokenVerifier turns a Google credential into a profile.
type TokenVerifier interface {
	Verify(ctx context.Context, credential string) (*models.GoogleProfile, error)
}

// GoogleVerifier validates Google ID tokens against a cached key set.
type GoogleVerifier struct {
	audience   string
	certsURL   string
	httpClient *http.Client
	now        func() time.Time

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	expires   time.Time
	fetchedAt time.Time
}

func NewGoogleVerifier(audience string) *GoogleVerifier {
	return &GoogleVerifier{
		audience:   audience,
		certsURL:   GoogleCertsURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
}

// publicKeys fetches and caches Google's public keys.
func (v *GoogleVerifier) publicKeys(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	v.mu.RLock()
	if v.keys != nil && v.now().Before(v.expires) {
		defer v.mu.RUnlock()
		return v.keys, nil
	}
	v.mu.RUnlock()
	return v.fetchKeys(ctx)
}

// refreshKeys refetches the key set after a rotation unless it was fetched
// within minRefetch.
func (v *GoogleVerifier) refreshKeys(ctx context.Context) (map[string]*rsa.PublicKey, bool, error) {
	v.mu.RLock()
	recent := !v.fetchedAt.IsZero() && v.now().Sub(v.fetchedAt) < minRefetch
	v.mu.RUnlock()
	if recent {
		return nil, false, nil
	}
	keys, err := v.fetchKeys(ctx)
	return keys, err == nil, err
}

func (v *GoogleVerifier) fetchKeys(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.certsURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Google certs: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google certs endpoint returned %d", resp.StatusCode)
	}

	var keyResp GoogleJWKResponse
	if err := json.NewDecoder(resp.Body).Decode(&keyResp); err != nil {
		return nil, fmt.Errorf("failed to decode Google keys: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(keyResp.Keys))
	for _, key := range keyResp.Keys {
		pubKey, err := convertJWKToPublicKey(key.N, key.E)
		if err != nil {
			return nil, fmt.Errorf("failed to convert JWK to public key: %w", err)
		}
		keys[key.Kid] = pubKey
	}

	v.mu.Lock()
	v.keys = keys
	v.fetchedAt = v.now()
	v.expires = v.fetchedAt.Add(keysTTL)
	v.mu.Unlock()

	return keys, nil
}

// convertJWKToPublicKey converts base64url encoded modulus and exponent to rsa.PublicKey.
func convertJWKToPublicKey(n, e string) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}
	eb, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
	}

	var exp int
	for _, b := range eb {
		exp = exp<<8 + int(b)
	}

	return &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: exp}, nil
}

// Verify validates signature, audience, issuer and expiry of a Google ID token.
func (v *GoogleVerifier) Verify(ctx context.Context, credential string) (*models.GoogleProfile, error) {
	if v.audience == "" {
		return nil, errors.New("google client ID is not configured")
	}
	keys, err := v.publicKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google public keys: %w", err)
	}

	parser := new(jwt.Parser)
	unverified, _, err := parser.ParseUnverified(credential, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	kid, ok := unverified.Header["kid"].(string)
	if !ok {
		return nil, errors.New("token missing kid header")
	}
	pubKey, exists := keys[kid]
	if !exists {
		fresh, refreshed, err := v.refreshKeys(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to refresh Google public keys: %w", err)
		}
		if refreshed {
			pubKey, exists = fresh[kid]
		}
	}
	if !exists {
		return nil, errors.New("no matching Google public key found")
	}

	token, err := jwt.Parse(credential, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return pubKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid Google ID token")
	}

	if !claims.VerifyAudience(v.audience, true) {
		return nil, errors.New("invalid audience in Google ID token")
	}
	if iss, ok := claims["iss"].(string); !ok || (iss != "accounts.google.com" && iss != "https://accounts.google.com") {
		return nil, errors.New("invalid issuer in Google ID token")
	}
	if exp, ok := claims["exp"].(float64); !ok || int64(exp) < v.now().Unix() {
		return nil, errors.New("google ID token expired")
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" || email == "" {
		return nil, errors.New("google ID token is missing sub or email")
	}
	name, _ := claims["name"].(string)
	picture, _ := claims["picture"].(string)

	return &models.GoogleProfile{
		Subject: sub,
		Email:   strings.ToLower(email),
		Name:    name,
		Picture: picture,
	}, nil
}
