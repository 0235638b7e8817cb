package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testIssuer   = "https://cognito-idp.us-east-1.amazonaws.com/us-east-1_testpool"
	testClientID = "client-123"
)

func newTestKeys(t *testing.T) (*rsa.PrivateKey, jwt.Keyfunc) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	keyFn := func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return &key.PublicKey, nil
	}
	return key, keyFn
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss":                           testIssuer,
		"aud":                           testClientID,
		"sub":                           "user-42",
		"cognito:username":              "investor",
		"email":                         "investor@example.com",
		"given_name":                    "Ada",
		"custom:risk_tolerance":         "moderate",
		"custom:investment_timeline":    "5-10 years",
		"custom:investment_preferences": "rental",
		"exp":                           time.Now().Add(time.Hour).Unix(),
	}
}

func TestVerifyValidToken(t *testing.T) {
	key, keyFn := newTestKeys(t)
	v := NewVerifierWithKeyfunc(testIssuer, testClientID, keyFn)

	profile, err := v.Verify("Bearer " + signToken(t, key, validClaims()))
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if profile.UserID != "user-42" {
		t.Errorf("UserID = %q, want user-42", profile.UserID)
	}
	if profile.Username != "investor" {
		t.Errorf("Username = %q, want investor", profile.Username)
	}
	if profile.RiskTolerance != "moderate" {
		t.Errorf("RiskTolerance = %q, want moderate", profile.RiskTolerance)
	}
	if profile.InvestmentTimeline != "5-10 years" {
		t.Errorf("InvestmentTimeline = %q, want 5-10 years", profile.InvestmentTimeline)
	}
}

func TestVerifyRejectsBadSignature(t *testing.T) {
	_, keyFn := newTestKeys(t)
	otherKey, _ := newTestKeys(t)
	v := NewVerifierWithKeyfunc(testIssuer, testClientID, keyFn)

	if _, err := v.Verify(signToken(t, otherKey, validClaims())); err == nil {
		t.Fatal("Verify accepted a token signed with the wrong key")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	key, keyFn := newTestKeys(t)
	v := NewVerifierWithKeyfunc(testIssuer, testClientID, keyFn)

	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Minute).Unix()
	if _, err := v.Verify(signToken(t, key, claims)); err == nil {
		t.Fatal("Verify accepted an expired token")
	}
}

func TestVerifyRejectsMissingExpiry(t *testing.T) {
	key, keyFn := newTestKeys(t)
	v := NewVerifierWithKeyfunc(testIssuer, testClientID, keyFn)

	claims := validClaims()
	delete(claims, "exp")
	if _, err := v.Verify(signToken(t, key, claims)); err == nil {
		t.Fatal("Verify accepted a token without exp")
	}
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	key, keyFn := newTestKeys(t)
	v := NewVerifierWithKeyfunc(testIssuer, testClientID, keyFn)

	claims := validClaims()
	claims["iss"] = "https://cognito-idp.us-east-1.amazonaws.com/us-east-1_otherpool"
	if _, err := v.Verify(signToken(t, key, claims)); err == nil {
		t.Fatal("Verify accepted a token from another issuer")
	}
}

func TestVerifyRejectsWrongAudience(t *testing.T) {
	key, keyFn := newTestKeys(t)
	v := NewVerifierWithKeyfunc(testIssuer, testClientID, keyFn)

	claims := validClaims()
	claims["aud"] = "someone-else"
	if _, err := v.Verify(signToken(t, key, claims)); err == nil {
		t.Fatal("Verify accepted a token for another audience")
	}
}

func TestVerifyRejectsUnsignedAlg(t *testing.T) {
	_, keyFn := newTestKeys(t)
	v := NewVerifierWithKeyfunc(testIssuer, testClientID, keyFn)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims())
	unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := v.Verify(unsigned); err == nil {
		t.Fatal("Verify accepted an alg=none token")
	}
}

func TestVerifyMissingToken(t *testing.T) {
	_, keyFn := newTestKeys(t)
	v := NewVerifierWithKeyfunc(testIssuer, testClientID, keyFn)

	if _, err := v.Verify(""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("Verify(\"\") error = %v, want ErrMissingToken", err)
	}
	if _, err := v.Verify("Bearer   "); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("Verify(blank bearer) error = %v, want ErrMissingToken", err)
	}
}
