// SPDX-License-Identifier: EPL-2.0

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/ik5/audclass/classifier"
	"github.com/ik5/audclass/profile"
)

// Key layout: the label order lives under orderKey, each profile under
// profilePrefix+label.
var (
	keyPrefix     = []byte("profiles/")
	orderKey      = []byte("profiles/order")
	profilePrefix = []byte("profiles/label/")
)

// BadgerOptions configures a BadgerProfiles store.
type BadgerOptions struct {
	// Dir holds the database files. Required unless InMemory is set.
	Dir string

	// InMemory runs badger without touching disk.
	InMemory bool

	// Logger receives badger's warnings and errors. Defaults to slog.Default.
	Logger *slog.Logger
}

// BadgerProfiles is a ProfileStore backed by BadgerDB.
type BadgerProfiles struct {
	db *badger.DB
}

func OpenBadger(opts BadgerOptions) (*BadgerProfiles, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("store: BadgerOptions.Dir is required for on-disk mode")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dbOpts := badger.DefaultOptions(opts.Dir).WithLogger(badgerLogger{logger})
	if opts.InMemory {
		dbOpts = dbOpts.WithInMemory(true)
	}

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger %s: %w", opts.Dir, err)
	}
	return &BadgerProfiles{db: db}, nil
}

func (b *BadgerProfiles) Close() error {
	return b.db.Close()
}

func (b *BadgerProfiles) Load(ctx context.Context) (*profile.Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set := profile.NewSet()
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(orderKey)
		if err != nil {
			return err
		}

		var labels []string
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &labels)
		}); err != nil {
			return err
		}

		for _, label := range labels {
			item, err := txn.Get(append(append([]byte(nil), profilePrefix...), label...))
			if err != nil {
				return fmt.Errorf("profile %q: %w", label, err)
			}

			var p profile.Profile
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &p)
			}); err != nil {
				return fmt.Errorf("profile %q: %w", label, err)
			}
			set.Put(label, p)
		}
		return nil
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %w", classifier.ErrNoReferenceData, err)
	}
	if err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, fmt.Errorf("%w: %w", classifier.ErrNoReferenceData, err)
		}
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	return set, nil
}

// Save replaces every stored profile with set in a single transaction.
func (b *BadgerProfiles) Save(ctx context.Context, set *profile.Set) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if set == nil {
		set = profile.NewSet()
	}

	labels := set.Labels()
	if labels == nil {
		labels = []string{}
	}
	order, err := json.Marshal(labels)
	if err != nil {
		return err
	}

	return b.db.Update(func(txn *badger.Txn) error {
		var stale [][]byte
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.PrefetchValues = false
		iterOpts.Prefix = keyPrefix
		it := txn.NewIterator(iterOpts)
		for it.Seek(keyPrefix); it.ValidForPrefix(keyPrefix); it.Next() {
			stale = append(stale, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, k := range stale {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}

		for label, p := range set.All() {
			val, err := json.Marshal(p)
			if err != nil {
				return err
			}
			key := append(append([]byte(nil), profilePrefix...), label...)
			if err := txn.Set(key, val); err != nil {
				return err
			}
		}
		return txn.Set(orderKey, order)
	})
}

// badgerLogger forwards badger's log output to slog. Info and debug chatter
// is dropped.
type badgerLogger struct {
	l *slog.Logger
}

func (b badgerLogger) Errorf(f string, v ...any) {
	b.l.Error(fmt.Sprintf(f, v...), "component", "badger")
}

func (b badgerLogger) Warningf(f string, v ...any) {
	b.l.Warn(fmt.Sprintf(f, v...), "component", "badger")
}

func (badgerLogger) Infof(string, ...any)  {}
func (badgerLogger) Debugf(string, ...any) {}
