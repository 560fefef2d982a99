package credentials

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func buildTestSessionToken(t testing.TB, expiry time.Duration) string {
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(expiry)),
		IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
		Issuer:    "https://idp.test.com/auth/realms/test",
		Subject:   "test-subject",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString([]byte("test-signing-secret"))
	if err != nil {
		t.Fatalf("Could not create test session token: %s", err)
	}
	return tokenStr
}

func TestValidCredentialTriplePassesValidation(t *testing.T) {
	//GIVEN a complete triple with a live session token
	cred := AWSCredentials{
		AccessKey:    "0123455678910abcdef09459",
		SecretKey:    "YWUzOTQyM2FlMDMzNDlkNjk0M2FmZDE1OWE1ZGRkMT",
		SessionToken: buildTestSessionToken(t, time.Hour),
	}

	//WHEN validating
	err := cred.Validate()

	//THEN all is good
	if err != nil {
		t.Errorf("did not expect error: %s", err)
	}
}

func TestIncompleteCredentialsAreRefused(t *testing.T) {
	var testCases = []struct {
		description string
		cred        AWSCredentials
	}{
		{"no access key", AWSCredentials{SecretKey: "sk"}},
		{"no secret key", AWSCredentials{AccessKey: "ak"}},
	}

	for _, tc := range testCases {
		//WHEN validating an incomplete triple
		err := tc.cred.Validate()

		//THEN we fail before any signing could happen
		if !errors.Is(err, ErrIncompleteAwsCredentials) {
			t.Errorf("%s: expected ErrIncompleteAwsCredentials got %v", tc.description, err)
		}
	}
}

func TestExplicitExpirationIsHonored(t *testing.T) {
	//GIVEN a triple that explicitly expired a minute ago
	cred := AWSCredentials{
		AccessKey:  "ak",
		SecretKey:  "sk",
		Expiration: time.Now().UTC().Add(-time.Minute),
	}

	//WHEN validating
	err := cred.Validate()

	//THEN the triple is reported expired
	if !errors.Is(err, ErrExpiredAwsCredentials) {
		t.Errorf("expected ErrExpiredAwsCredentials got %v", err)
	}
}

func TestJwtSessionTokenExpiryIsHonored(t *testing.T) {
	//GIVEN a triple without explicit expiration but with an expired JWT session token
	cred := AWSCredentials{
		AccessKey:    "ak",
		SecretKey:    "sk",
		SessionToken: buildTestSessionToken(t, -time.Minute),
	}

	//WHEN validating
	err := cred.Validate()

	//THEN the expiry is taken from the token's exp claim
	if !errors.Is(err, ErrExpiredAwsCredentials) {
		t.Errorf("expected ErrExpiredAwsCredentials got %v", err)
	}
}

func TestOpaqueSessionTokenDoesNotFailValidation(t *testing.T) {
	//GIVEN a triple whose session token is not a JWT
	cred := AWSCredentials{
		AccessKey:    "ak",
		SecretKey:    "sk",
		SessionToken: "FQoGZXIvYXdzEBYaDkiOiJ7XG5cdFwiVmVyc2lvblwiOiBcIjIwMTItMTAtMTdcIixcblx0XCJT",
	}

	//WHEN validating
	err := cred.Validate()

	//THEN we cannot check expiry but the triple is still usable
	if err != nil {
		t.Errorf("did not expect error: %s", err)
	}
}

func TestSessionTokenExpiryExtraction(t *testing.T) {
	//GIVEN a JWT session token that lives for an hour
	token := buildTestSessionToken(t, time.Hour)

	//WHEN extracting the expiry
	expiry, err := SessionTokenExpiry(token)

	//THEN we get a time roughly an hour from now
	if err != nil {
		t.Fatalf("did not expect error: %s", err)
	}
	untilExpiry := time.Until(expiry)
	if untilExpiry < 55*time.Minute || untilExpiry > 65*time.Minute {
		t.Errorf("expected expiry about an hour from now, got %s", untilExpiry)
	}
}

func TestRoundTripThroughAwsSDKCredentials(t *testing.T) {
	//GIVEN a triple with expiration
	cred := AWSCredentials{
		AccessKey:    "ak",
		SecretKey:    "sk",
		SessionToken: "token",
		Expiration:   time.Now().UTC().Add(time.Hour).Truncate(time.Second),
	}

	//WHEN converting to aws sdk credentials via the provider interface and back
	awsCred, err := cred.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("did not expect error: %s", err)
	}
	back := FromAwsSDKCredentials(awsCred)

	//THEN nothing got lost
	if back != cred {
		t.Errorf("round trip mangled credentials: %+v vs %+v", back, cred)
	}
}
