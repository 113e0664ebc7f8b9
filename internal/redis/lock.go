package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLockNotAcquired = errors.New("doctor day lock not acquired")
)

// Locker serializes booking confirmations for one doctor on one calendar day.
// The conflict check and the appointment insert must both run inside the
// critical section so that two concurrent bookings cannot both pass the check.
type Locker interface {
	WithDoctorDayLock(ctx context.Context, doctorID int64, date time.Time, fn func(ctx context.Context) error) error
}

type doctorDayLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDoctorDayLocker creates a locker that uses a per doctor+date Redis key
func NewDoctorDayLocker(client *redis.Client, ttl time.Duration) Locker {
	return &doctorDayLocker{
		client: client,
		ttl:    ttl,
	}
}

func (l *doctorDayLocker) WithDoctorDayLock(ctx context.Context, doctorID int64, date time.Time, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:booking:%d:%s", doctorID, date.Format("2006-01-02"))
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire booking lock: %w", err)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *doctorDayLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release booking lock: %w", err)
	}
	return nil
}
