package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studypulse/pulse/internal/logger"
)

func TestAuthenticator_RoundTrip(t *testing.T) {
	a := NewAuthenticator(testSecret, time.Hour)

	tok, err := a.Issue("stu-1", RoleStudent)
	require.NoError(t, err)

	id, err := a.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "stu-1", Role: RoleStudent}, id)

	_, err = a.Issue("", RoleStudent)
	assert.Error(t, err)
}

func TestAuthenticator_Rejects(t *testing.T) {
	a := NewAuthenticator(testSecret, time.Hour)
	tok, err := a.Issue("stu-1", RoleTeacher)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewAuthenticator("ffffffffffffffffffffffffffffffff", time.Hour)
		_, err := other.Verify(tok)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewAuthenticator(testSecret, time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Verify(tok)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("unknown role", func(t *testing.T) {
		claims := Claims{
			Role: "ADMIN",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "x",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		bad, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = a.Verify(bad)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("no expiry", func(t *testing.T) {
		claims := Claims{Role: RoleStudent, RegisteredClaims: jwt.RegisteredClaims{Subject: "x"}}
		bad, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = a.Verify(bad)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" teacher ")
	require.NoError(t, err)
	assert.Equal(t, RoleTeacher, r)

	_, err = ParseRole("admin")
	assert.Error(t, err)
}

func TestRecoverPanics(t *testing.T) {
	logger.SetBasePath(t.TempDir())
	t.Cleanup(func() { logger.SetBasePath("") })

	s := &Server{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	h := s.recoverPanics(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	logs, err := logger.ListCrashLogs()
	require.NoError(t, err)
	require.Len(t, logs, 1)
	crash, err := logger.ReadCrashLog(logs[0])
	require.NoError(t, err)
	assert.Equal(t, "GET /api/dashboard", crash.Request)
}
