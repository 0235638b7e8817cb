package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/propertypilot/backend/internal/config"
	model "github.com/propertypilot/backend/internal/model/session"
)

var (
	// ErrMissingToken indicates an empty or absent bearer token.
	ErrMissingToken = errors.New("auth: missing token")
	// ErrVerifierDisabled indicates no user pool is configured.
	ErrVerifierDisabled = errors.New("auth: verification not configured")
)

// Verifier validates Cognito-issued JWTs against the pool's published keys.
// Tokens are never trusted on claims alone; the signature must check out.
type Verifier struct {
	keyFn    jwt.Keyfunc
	issuer   string
	clientID string
}

// NewVerifier fetches the JWKS for the configured pool and returns a
// ready verifier. The key set refreshes itself in the background for the
// lifetime of ctx.
func NewVerifier(ctx context.Context, cfg config.AuthConfig) (*Verifier, error) {
	if !cfg.Enabled() {
		return nil, ErrVerifierDisabled
	}

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{cfg.JWKSURL()})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS from %s: %w", cfg.JWKSURL(), err)
	}

	return &Verifier{
		keyFn:    jwks.Keyfunc,
		issuer:   cfg.IssuerURL(),
		clientID: cfg.ClientID,
	}, nil
}

// NewVerifierWithKeyfunc builds a verifier around a caller-provided key
// lookup. Used in tests with locally generated keys.
func NewVerifierWithKeyfunc(issuer, clientID string, keyFn jwt.Keyfunc) *Verifier {
	return &Verifier{keyFn: keyFn, issuer: issuer, clientID: clientID}
}

// Verify checks the token signature, issuer and expiry, then maps the
// claims into a user profile. A "Bearer " prefix is tolerated.
func (v *Verifier) Verify(tokenString string) (*model.UserProfile, error) {
	tokenString = strings.TrimSpace(tokenString)
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.Parse(tokenString, v.keyFn,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}

	// Cognito ID tokens carry the client ID in aud; access tokens in
	// client_id. Enforce whichever the token provides when configured.
	if v.clientID != "" {
		if aud := claimString(claims, "aud"); aud != "" && aud != v.clientID {
			return nil, fmt.Errorf("token audience %q does not match client", aud)
		}
		if cid := claimString(claims, "client_id"); cid != "" && cid != v.clientID {
			return nil, fmt.Errorf("token client_id %q does not match client", cid)
		}
	}

	profile := &model.UserProfile{
		UserID:                claimString(claims, "sub"),
		Username:              claimString(claims, "cognito:username"),
		Email:                 claimString(claims, "email"),
		GivenName:             claimString(claims, "given_name"),
		FamilyName:            claimString(claims, "family_name"),
		InvestmentPreferences: claimString(claims, "custom:investment_preferences"),
		RiskTolerance:         claimString(claims, "custom:risk_tolerance"),
		InvestmentTimeline:    claimString(claims, "custom:investment_timeline"),
	}
	if profile.UserID == "" {
		return nil, errors.New("token has no subject")
	}
	return profile, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	if val, ok := claims[key].(string); ok {
		return val
	}
	return ""
}
