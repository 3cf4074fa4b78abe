package prompt

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/dmorgan81/pairgen/internal/log"
	"github.com/samber/do"
)

// DefaultPrompts is used for both sides when no vocabulary is configured.
var DefaultPrompts = []string{
	"food", "ramen", "beaf", "curry", "cycling", "ship", "boat", "sushi",
	"cycling", "ship", "boat", "car", "baseball pitcher", "dunk shoot", "spike",
	"soccer", "cascade", "tower", "street", "temple", "cat", "rabbit", "bird", "dog",
}

var ErrNoPrompts = errors.New("prompt: no prompts to choose from")

type Randomizer struct {
	left, right []string

	mu  sync.Mutex
	rnd *rand.Rand
}

func New(left, right []string, src rand.Source) *Randomizer {
	return &Randomizer{left: left, right: right, rnd: rand.New(src)}
}

func NewRandomizer(i *do.Injector) (*Randomizer, error) {
	prompts := do.MustInvokeNamed[[]string](i, "prompts")
	return New(prompts, prompts, rand.NewSource(time.Now().UTC().UnixNano())), nil
}

// Randomize picks one prompt for each side independently.
func (r *Randomizer) Randomize(ctx context.Context) (string, string, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("randomizer")
	log.Info("getting random prompts")
	if len(r.left) == 0 || len(r.right) == 0 {
		return "", "", ErrNoPrompts
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.left[r.rnd.Intn(len(r.left))], r.right[r.rnd.Intn(len(r.right))], nil
}
