package reminders

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
)

// Blob store keys of the three persisted collections.
const (
	KeyMedications  = "medications"
	KeyTakenRecords = "takenRecords"
	KeyEvents       = "events"
)

// BlobStore is an opaque string-keyed value store.
type BlobStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// batchSetter is implemented by stores that can write several keys atomically.
type batchSetter interface {
	SetAll(ctx context.Context, values map[string]string) error
}

// Gateway loads and saves Collections as three JSON values.
type Gateway struct {
	blobs BlobStore
	log   zerolog.Logger
}

func NewGateway(blobs BlobStore, log zerolog.Logger) *Gateway {
	return &Gateway{blobs: blobs, log: log}
}

// Load reads the three collections. A missing or unparsable value yields the
// empty collection; only a failing store returns an error.
func (g *Gateway) Load(ctx context.Context) (Collections, error) {
	c := emptyCollections()

	if err := loadInto(ctx, g, KeyMedications, &c.Medications); err != nil {
		return emptyCollections(), err
	}
	if err := loadInto(ctx, g, KeyTakenRecords, &c.TakenRecords); err != nil {
		return emptyCollections(), err
	}
	if err := loadInto(ctx, g, KeyEvents, &c.Events); err != nil {
		return emptyCollections(), err
	}

	// "null" decodes into nil; keep the empty defaults.
	if c.Medications == nil {
		c.Medications = []Medication{}
	}
	if c.TakenRecords == nil {
		c.TakenRecords = map[string][]TakenRecord{}
	}
	if c.Events == nil {
		c.Events = map[string][]Event{}
	}
	return c, nil
}

// loadInto decodes the value under key into dst. It decodes into a scratch
// value first so a half-parsed blob leaves dst untouched.
func loadInto[T any](ctx context.Context, g *Gateway, key string, dst *T) error {
	raw, ok, err := g.blobs.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}
	if !ok {
		return nil
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		g.discard(key, err)
		return nil
	}
	*dst = v
	return nil
}

func (g *Gateway) discard(key string, err error) {
	g.log.Warn().Err(err).Str("key", key).Msg("unparsable collection, starting empty")
}

// Save writes all three collections.
func (g *Gateway) Save(ctx context.Context, c Collections) error {
	values := make(map[string]string, 3)
	for key, v := range map[string]any{
		KeyMedications:  c.Medications,
		KeyTakenRecords: c.TakenRecords,
		KeyEvents:       c.Events,
	} {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", key, err)
		}
		values[key] = string(raw)
	}

	if bs, ok := g.blobs.(batchSetter); ok {
		return bs.SetAll(ctx, values)
	}
	for _, key := range []string{KeyMedications, KeyTakenRecords, KeyEvents} {
		if err := g.blobs.Set(ctx, key, values[key]); err != nil {
			return err
		}
	}
	return nil
}
