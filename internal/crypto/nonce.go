package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

const nonceLen = 20

// Nonces — stateless одноразовые по времени nonce, привязанные к участнику.
// Время режется на тики по lifespan/2; принимается текущий и предыдущий тик.
type Nonces struct {
	key      []byte
	lifespan time.Duration
	now      func() time.Time
}

func NewNonces(key []byte, lifespan time.Duration) *Nonces {
	if lifespan <= 0 {
		lifespan = 24 * time.Hour
	}
	return &Nonces{key: key, lifespan: lifespan, now: time.Now}
}

// WithClock подменяет источник времени
func (n *Nonces) WithClock(now func() time.Time) *Nonces {
	cp := *n
	cp.now = now
	return &cp
}

// Action — имя действия nonce для участника
func Action(userID int64) string {
	return "wallet_" + strconv.FormatInt(userID, 10)
}

func (n *Nonces) tick() int64 {
	half := max(int64(n.lifespan/2), 1)
	return (n.now().UnixNano() + half - 1) / half
}

func (n *Nonces) sign(tick int64, action string) string {
	m := hmac.New(sha256.New, n.key)
	m.Write([]byte(strconv.FormatInt(tick, 10)))
	m.Write([]byte{'|'})
	m.Write([]byte(action))
	return hex.EncodeToString(m.Sum(nil))[:nonceLen]
}

// Create — nonce для участника на текущий тик
func (n *Nonces) Create(userID int64) string {
	return n.sign(n.tick(), Action(userID))
}

// Verify — nonce выпущен для этого участника в текущем или предыдущем тике
func (n *Nonces) Verify(nonce string, userID int64) bool {
	if len(nonce) != nonceLen {
		return false
	}
	t := n.tick()
	action := Action(userID)
	for _, tk := range []int64{t, t - 1} {
		if hmac.Equal([]byte(nonce), []byte(n.sign(tk, action))) {
			return true
		}
	}
	return false
}
