package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(now time.Time) *Service {
	svc := NewService([]byte("test-jwt-secret"), 0)
	svc.Now = func() time.Time { return now }
	return svc
}

func TestService_IssueAndVerify(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	svc := newTestService(now)

	token, exp, err := svc.Issue(42, "otter")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, now.Add(time.Hour), exp, time.Second)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "otter", claims.Username)
	assert.Equal(t, "42", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestService_Verify_ExpiredAfterOneHour(t *testing.T) {
	t.Parallel()

	issued := time.Now().UTC()
	svc := newTestService(issued)

	token, _, err := svc.Issue(1, "otter")
	require.NoError(t, err)

	svc.Now = func() time.Time { return issued.Add(59 * time.Minute) }
	_, err = svc.Verify(token)
	require.NoError(t, err)

	svc.Now = func() time.Time { return issued.Add(time.Hour + time.Second) }
	_, err = svc.Verify(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_Verify_Rejects(t *testing.T) {
	t.Parallel()

	svc := newTestService(time.Now())
	other := newTestService(time.Now())
	other.Secret = []byte("another-secret")

	foreign, _, err := other.Issue(1, "otter")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1}).SignedString(svc.Secret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-valid-jwt"},
		{name: "wrong secret", token: foreign},
		{name: "alg none", token: unsigned},
		{name: "no expiry", token: noExp},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims, err := svc.Verify(tt.token)
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
