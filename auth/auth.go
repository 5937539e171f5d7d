// auth/auth.go
package auth

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/vinizap/pinnotes/domain"
)

const userKey = "pin.user"

// Account is one entry of the users file.
type Account struct {
	domain.User `yaml:",inline"`
	TokenHash   string `yaml:"token_hash"`
}

// Directory resolves tokens to users.
type Directory struct {
	accounts map[int64]Account
}

func NewDirectory(accounts []Account) (*Directory, error) {
	d := &Directory{accounts: make(map[int64]Account, len(accounts))}
	for _, a := range accounts {
		if a.ID <= 0 {
			return nil, fmt.Errorf("user %q: id must be positive", a.Name)
		}
		if _, dup := d.accounts[a.ID]; dup {
			return nil, fmt.Errorf("user id %d listed twice", a.ID)
		}
		d.accounts[a.ID] = a
	}
	return d, nil
}

// LoadDirectory reads a YAML users file. A missing file yields an empty
// directory, so every request is anonymous.
func LoadDirectory(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewDirectory(nil)
	}
	if err != nil {
		return nil, err
	}
	var file struct {
		Users []Account `yaml:"users"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return NewDirectory(file.Users)
}

func (d *Directory) Len() int { return len(d.accounts) }

// Authenticate checks a token of the form "<id>.<secret>".
func (d *Directory) Authenticate(token string) (domain.User, bool) {
	idPart, secret, ok := strings.Cut(token, ".")
	if !ok || secret == "" {
		return domain.Anonymous, false
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return domain.Anonymous, false
	}
	a, ok := d.accounts[id]
	if !ok {
		return domain.Anonymous, false
	}
	if bcrypt.CompareHashAndPassword([]byte(a.TokenHash), []byte(secret)) != nil {
		return domain.Anonymous, false
	}
	return a.User, true
}

// HashToken produces the token_hash stored for a secret.
func HashToken(secret string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	return string(h), err
}

// Middleware resolves the caller. Requests without a token continue as the
// anonymous user; a token that does not check out is refused.
func Middleware(d *Directory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(domain.TokenHeader)
		if token == "" {
			c.Locals(userKey, domain.Anonymous)
			return c.Next()
		}
		u, ok := d.Authenticate(token)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		c.Locals(userKey, u)
		return c.Next()
	}
}

// UserFrom returns the caller set by Middleware.
func UserFrom(c *fiber.Ctx) domain.User {
	if u, ok := c.Locals(userKey).(domain.User); ok {
		return u
	}
	return domain.Anonymous
}
