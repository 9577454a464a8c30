package ratelimits

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
)

const (
	// How many keys a bucket may contain when created
	BUCKET_INITIAL_FILL = 8

	// The maximum amount of keys a user may possess
	BUCKET_UPPER_BOUND = 16

	// How often new keys drip into the buckets
	DROP_INTERVAL = 10 * time.Second

	// How many keys may drop at a time
	DROP_SIZE = 1
)

// ErrNoKeys is returned by Drain when the bucket is empty
var ErrNoKeys = errors.New("no keys left")

// Global pointer to a container instance
var Container = &BucketContainer{}

// Container struct to lock the bucket map
type BucketContainer struct {
	sync.Mutex

	// Maps discord ids to key-counts
	buckets map[string]int8
}

// Init allocates the map and starts the refiller until $ctx is done
func (b *BucketContainer) Init(ctx context.Context, clock clockwork.Clock) {
	b.Lock()
	b.buckets = make(map[string]int8)
	b.Unlock()

	go b.Refiller(ctx, clock)
}

// Refiller refills user buckets every DROP_INTERVAL
func (b *BucketContainer) Refiller(ctx context.Context, clock clockwork.Clock) {
	ticker := clock.NewTicker(DROP_INTERVAL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			b.Refill()
		}
	}
}

// Refill runs a single drop over all buckets
func (b *BucketContainer) Refill() {
	b.Lock()
	defer b.Unlock()

	for user, keys := range b.buckets {
		// Chill zone
		if keys == -1 {
			b.buckets[user]++
			continue
		}

		// Chill zone exit
		if keys == 0 {
			b.buckets[user] = BUCKET_INITIAL_FILL
			continue
		}

		if keys < BUCKET_UPPER_BOUND {
			b.buckets[user] += DROP_SIZE
		}
	}
}

// caller must hold the lock
func (b *BucketContainer) bucket(user string) int8 {
	if b.buckets == nil {
		b.buckets = make(map[string]int8)
	}
	keys, ok := b.buckets[user]
	if !ok {
		keys = BUCKET_INITIAL_FILL
		b.buckets[user] = keys
	}
	return keys
}

// Drain removes $amount from $user if enough keys are left
func (b *BucketContainer) Drain(amount int8, user string) error {
	b.Lock()
	defer b.Unlock()

	if amount > b.bucket(user) {
		return ErrNoKeys
	}
	b.buckets[user] -= amount
	return nil
}

// HasKeys checks if the user still has keys
func (b *BucketContainer) HasKeys(user string) bool {
	b.Lock()
	defer b.Unlock()

	return b.bucket(user) > 0
}

func (b *BucketContainer) Get(user string) int8 {
	b.Lock()
	defer b.Unlock()

	return b.buckets[user]
}

// Set overrides the key count, -1 puts the user into the chill zone
func (b *BucketContainer) Set(user string, value int8) {
	b.Lock()
	defer b.Unlock()

	if b.buckets == nil {
		b.buckets = make(map[string]int8)
	}
	b.buckets[user] = value
}
