package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v3"

	"github.com/arloliu/gridcodec/compress"
	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/format"
	"github.com/arloliu/gridcodec/internal/options"
)

const defaultBadgerPrefix = "gridcodec/"

// BadgerBackend archives schematizations in a badger database.
//
// Each artifact value starts with one byte naming the compression applied to
// the rest, so archives written with different settings stay readable. A commit
// is a single badger transaction.
type BadgerBackend struct {
	db          *badger.DB
	prefix      string
	compression format.CompressionType
	inMemory    bool
	ownsDB      bool
}

// BadgerOption configures a BadgerBackend.
type BadgerOption = options.Option[*BadgerBackend]

// WithCompression compresses artifact values with ct.
func WithCompression(ct format.CompressionType) BadgerOption {
	return options.New(func(b *BadgerBackend) error {
		if _, err := compress.GetCodec(ct); err != nil {
			return err
		}
		b.compression = ct

		return nil
	})
}

// WithPrefix namespaces keys so several schematizations can share a database.
func WithPrefix(prefix string) BadgerOption {
	return options.NoError(func(b *BadgerBackend) {
		b.prefix = prefix
	})
}

// WithInMemory opens a database without files. The path passed to OpenBadger is ignored.
func WithInMemory() BadgerOption {
	return options.NoError(func(b *BadgerBackend) {
		b.inMemory = true
	})
}

// OpenBadger opens (or creates) the database at path.
func OpenBadger(path string, opts ...BadgerOption) (*BadgerBackend, error) {
	b := &BadgerBackend{prefix: defaultBadgerPrefix, compression: format.CompressionNone, ownsDB: true}
	if err := options.Apply(b, opts...); err != nil {
		return nil, fmt.Errorf("badger backend: %w", err)
	}

	bopts := badger.DefaultOptions(path)
	if b.inMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.Logger = nil

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("badger backend: open %s: %w", path, err)
	}
	b.db = db

	return b, nil
}

// NewBadgerBackend wraps an already open database. Close does not close db.
func NewBadgerBackend(db *badger.DB, opts ...BadgerOption) (*BadgerBackend, error) {
	b := &BadgerBackend{db: db, prefix: defaultBadgerPrefix, compression: format.CompressionNone}
	if err := options.Apply(b, opts...); err != nil {
		return nil, fmt.Errorf("badger backend: %w", err)
	}

	return b, nil
}

// Close closes the database when it was opened by OpenBadger.
func (b *BadgerBackend) Close() error {
	if !b.ownsDB {
		return nil
	}

	return b.db.Close()
}

func (b *BadgerBackend) key(name string) []byte {
	return []byte(b.prefix + name)
}

func (b *BadgerBackend) Get(ctx context.Context, name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var raw []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(b.key(name))
		if err != nil {
			return err
		}

		raw, err = item.ValueCopy(nil)

		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", errs.ErrArtifactNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("badger backend: get %s: %w", name, err)
	}

	return unwrapValue(name, raw)
}

func (b *BadgerBackend) Commit(ctx context.Context, artifacts []Artifact) error {
	if err := validateArtifacts(artifacts); err != nil {
		return err
	}

	codec, err := compress.GetCodec(b.compression)
	if err != nil {
		return err
	}

	values := make([][]byte, len(artifacts))
	for i, a := range artifacts {
		payload, err := codec.Compress(a.Data)
		if err != nil {
			return fmt.Errorf("badger backend: compress %s: %w", a.Name, err)
		}

		values[i] = append([]byte{byte(b.compression)}, payload...)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		for i, a := range artifacts {
			if err := txn.Set(b.key(a.Name), values[i]); err != nil {
				return fmt.Errorf("set %s: %w", a.Name, err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("badger backend: commit: %w", err)
	}

	return nil
}

func (b *BadgerBackend) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var names []string
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(b.prefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), b.prefix))
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger backend: list: %w", err)
	}

	return names, nil
}

func unwrapValue(name string, raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: badger value for %s has no compression byte", errs.ErrLengthMismatch, name)
	}

	codec, err := compress.GetCodec(format.CompressionType(raw[0]))
	if err != nil {
		return nil, fmt.Errorf("badger backend: %s: %w", name, err)
	}

	data, err := codec.Decompress(raw[1:])
	if err != nil {
		return nil, fmt.Errorf("badger backend: decompress %s: %w", name, err)
	}

	return data, nil
}
