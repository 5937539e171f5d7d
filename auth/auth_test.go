package auth

import (
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vinizap/pinnotes/domain"
)

func testDirectory(t *testing.T) *Directory {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	d, err := NewDirectory([]Account{
		{User: domain.User{ID: 7, Name: "alice"}, TokenHash: string(hash)},
		{User: domain.User{ID: 1, Name: "admin", Admin: true}, TokenHash: string(hash)},
	})
	require.NoError(t, err)
	return d
}

func TestAuthenticate(t *testing.T) {
	d := testDirectory(t)

	u, ok := d.Authenticate("7.s3cret")
	require.True(t, ok)
	assert.Equal(t, "alice", u.Name)

	for _, token := range []string{"7.wrong", "8.s3cret", "s3cret", "x.s3cret", "7."} {
		_, ok := d.Authenticate(token)
		assert.False(t, ok, token)
	}
}

func TestNewDirectoryRejectsBadIDs(t *testing.T) {
	_, err := NewDirectory([]Account{{User: domain.User{ID: 0, Name: "zero"}}})
	assert.Error(t, err)

	_, err = NewDirectory([]Account{{User: domain.User{ID: 2}}, {User: domain.User{ID: 2}}})
	assert.Error(t, err)
}

func TestLoadDirectory(t *testing.T) {
	hash, err := HashToken("pw")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "users.yaml")
	body := "users:\n  - id: 7\n    name: alice\n    admin: true\n    token_hash: \"" + hash + "\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))

	d, err := LoadDirectory(path)
	require.NoError(t, err)
	u, ok := d.Authenticate("7.pw")
	require.True(t, ok)
	assert.True(t, u.Admin)

	empty, err := LoadDirectory(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware(testDirectory(t)))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(UserFrom(c))
	})

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantBody   string
	}{
		{"anonymous", "", fiber.StatusOK, `{"id":0,"name":"","admin":false}`},
		{"valid", "7.s3cret", fiber.StatusOK, `{"id":7,"name":"alice","admin":false}`},
		{"invalid", "7.nope", fiber.StatusUnauthorized, `{"error":"Unauthorized"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.token != "" {
				req.Header.Set(domain.TokenHeader, tt.token)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.JSONEq(t, tt.wantBody, string(body))
		})
	}
}

func TestNonces(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	n := NewNonces("secret")
	n.now = func() time.Time { return now }

	nonce := n.Create("save_position", 7)
	assert.Len(t, nonce, nonceLen)
	assert.True(t, n.Verify(nonce, "save_position", 7))
	assert.False(t, n.Verify(nonce, "save_position", 8), "bound to the user")
	assert.False(t, n.Verify(nonce, "other", 7), "bound to the action")
	assert.False(t, n.Verify("", "save_position", 7))

	other := NewNonces("different")
	other.now = n.now
	assert.False(t, other.Verify(nonce, "save_position", 7), "bound to the secret")

	now = now.Add(DefaultNonceLifetime / 2)
	assert.True(t, n.Verify(nonce, "save_position", 7), "still valid in the next tick")

	now = now.Add(DefaultNonceLifetime)
	assert.False(t, n.Verify(nonce, "save_position", 7), "expired")
}
