package repository

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"golang.org/x/exp/slices"

	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	"github.com/BruksfildServices01/slot-scheduler/internal/models"
)

// Keys share the {providerID} hash tag so every script for one provider runs
// against a single cluster slot.
func availabilityKey(providerID string) string {
	return fmt.Sprintf("calendar:{%s}:available", providerID)
}

func slotsKey(providerID, date string) string {
	return fmt.Sprintf("calendar:{%s}:slots:%s", providerID, date)
}

const (
	scriptMissing     = -1
	scriptUnavailable = -2
	scriptTaken       = 0
	scriptOK          = 1
)

var reserveScript = redis.NewScript(`
local available = redis.call('GET', KEYS[1])
if not available then
  return -1
end
if available ~= '1' then
  return -2
end
if redis.call('SADD', KEYS[2], ARGV[1]) == 0 then
  return 0
end
return 1
`)

var releaseScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return -1
end
redis.call('SREM', KEYS[2], ARGV[1])
return 1
`)

type availabilityRecorder interface {
	SetAvailability(ctx context.Context, providerID string, available bool) error
}

// RedisCalendarStore keeps booked-slot sets and availability flags in redis.
// Each script executes atomically on the server, which gives per-provider
// check-and-insert without holding a lock in this process.
type RedisCalendarStore struct {
	rdb    redis.UniversalClient
	mirror availabilityRecorder
}

// NewRedisCalendarStore builds the store. When mirror is set, availability
// changes are written to it before redis so provider reads stay in step.
func NewRedisCalendarStore(
	rdb redis.UniversalClient,
	mirror availabilityRecorder,
) *RedisCalendarStore {
	return &RedisCalendarStore{rdb: rdb, mirror: mirror}
}

// Seed copies availability flags of existing providers and the slots held by
// active appointments. Redis then holds every slot the ledger says is taken,
// whether it started empty or lost its data.
func (s *RedisCalendarStore) Seed(
	ctx context.Context,
	providers []models.Provider,
	active []models.Appointment,
) error {

	if len(providers) == 0 && len(active) == 0 {
		return nil
	}

	_, err := s.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for _, prov := range providers {
			p.Set(ctx, availabilityKey(prov.ID), flag(prov.Available), 0)
		}
		for _, ap := range active {
			if ap.Cancelled {
				continue
			}
			p.SAdd(ctx, slotsKey(ap.ProviderID, ap.Date), ap.Time)
		}
		return nil
	})
	return redisErr(err)
}

func (s *RedisCalendarStore) Reserve(
	ctx context.Context,
	providerID string,
	slot domain.Slot,
) error {

	code, err := reserveScript.Run(
		ctx,
		s.rdb,
		[]string{availabilityKey(providerID), slotsKey(providerID, slot.Date)},
		slot.Time,
	).Int64()
	if err != nil {
		return redisErr(err)
	}
	return reserveResult(code, providerID, slot)
}

func reserveResult(code int64, providerID string, slot domain.Slot) error {
	switch code {
	case scriptOK:
		return nil
	case scriptTaken:
		return httperr.ErrBusinessf(httperr.CodeAlreadyBooked, "slot %s is already booked", slot)
	case scriptUnavailable:
		return httperr.ErrBusinessf(httperr.CodeProviderUnavailable, "provider %s is not available", providerID)
	case scriptMissing:
		return httperr.ErrBusinessf(httperr.CodeNotFound, "provider %s not found", providerID)
	default:
		return httperr.ErrBusinessf(httperr.CodePersistenceFailure, "unexpected reserve result %d", code)
	}
}

func (s *RedisCalendarStore) Release(
	ctx context.Context,
	providerID string,
	slot domain.Slot,
) error {

	code, err := releaseScript.Run(
		ctx,
		s.rdb,
		[]string{availabilityKey(providerID), slotsKey(providerID, slot.Date)},
		slot.Time,
	).Int64()
	if err != nil {
		return redisErr(err)
	}
	if code == scriptMissing {
		return httperr.ErrBusinessf(httperr.CodeNotFound, "provider %s not found", providerID)
	}
	return nil
}

func (s *RedisCalendarStore) SetAvailability(
	ctx context.Context,
	providerID string,
	available bool,
) error {

	if s.mirror != nil {
		if err := s.mirror.SetAvailability(ctx, providerID, available); err != nil {
			return err
		}
	}

	return redisErr(s.rdb.Set(ctx, availabilityKey(providerID), flag(available), 0).Err())
}

func (s *RedisCalendarStore) BookedSlots(
	ctx context.Context,
	providerID string,
	date string,
) ([]string, error) {

	n, err := s.rdb.Exists(ctx, availabilityKey(providerID)).Result()
	if err != nil {
		return nil, redisErr(err)
	}
	if n == 0 {
		return nil, httperr.ErrBusinessf(httperr.CodeNotFound, "provider %s not found", providerID)
	}

	labels, err := s.rdb.SMembers(ctx, slotsKey(providerID, date)).Result()
	if err != nil {
		return nil, redisErr(err)
	}
	slices.Sort(labels)
	return labels, nil
}

func flag(available bool) string {
	if available {
		return "1"
	}
	return "0"
}

func redisErr(err error) error {
	if err == nil {
		return nil
	}
	return httperr.Wrap(httperr.CodePersistenceFailure, err, "calendar store failed")
}

// Compile-time check
var _ domain.CalendarStore = (*RedisCalendarStore)(nil)
