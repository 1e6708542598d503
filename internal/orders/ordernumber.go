package orders

import (
	"fmt"
	"math/rand"
	"time"
)

// numberGenerator issues human-readable order numbers of the form
// PREFIX-<unix seconds>-<4 random digits>. Uniqueness is enforced by the
// database index; callers retry on collision.
type numberGenerator struct {
	prefix string
	now    func() time.Time
	digits func() int
}

func newNumberGenerator(prefix string) *numberGenerator {
	if prefix == "" {
		prefix = "RLV"
	}
	return &numberGenerator{
		prefix: prefix,
		now:    time.Now,
		digits: func() int { return rand.Intn(10000) },
	}
}

func (g *numberGenerator) Next() string {
	return fmt.Sprintf("%s-%d-%04d", g.prefix, g.now().Unix(), g.digits())
}
