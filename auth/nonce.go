package auth

import (
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"time"

	"golang.org/x/crypto/blake2b"
)

// DefaultNonceLifetime matches the usual day-long CSRF token validity.
const DefaultNonceLifetime = 24 * time.Hour

const nonceLen = 10

// Nonces issues short per-user, per-action tokens. A nonce stays valid for
// the tick it was issued in and the following one.
type Nonces struct {
	key      [32]byte
	lifetime time.Duration
	now      func() time.Time
}

func NewNonces(secret string) *Nonces {
	return &Nonces{
		key:      blake2b.Sum256([]byte(secret)),
		lifetime: DefaultNonceLifetime,
		now:      time.Now,
	}
}

func (n *Nonces) tick() int64 {
	half := int64(n.lifetime / 2)
	t := n.now().UnixNano()
	return (t + half - 1) / half
}

func (n *Nonces) mac(tick int64, action string, uid int64) string {
	h, _ := blake2b.New256(n.key[:])
	h.Write([]byte(strconv.FormatInt(tick, 10)))
	h.Write([]byte{'|'})
	h.Write([]byte(action))
	h.Write([]byte{'|'})
	h.Write([]byte(strconv.FormatInt(uid, 10)))
	return hex.EncodeToString(h.Sum(nil))[:nonceLen]
}

// Create returns the nonce for action by uid.
func (n *Nonces) Create(action string, uid int64) string {
	return n.mac(n.tick(), action, uid)
}

// Verify reports whether nonce was issued for action and uid in the current
// or previous tick.
func (n *Nonces) Verify(nonce, action string, uid int64) bool {
	if len(nonce) != nonceLen {
		return false
	}
	t := n.tick()
	for _, tick := range []int64{t, t - 1} {
		if subtle.ConstantTimeCompare([]byte(nonce), []byte(n.mac(tick, action, uid))) == 1 {
			return true
		}
	}
	return false
}
