package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/adapters/sqlite"
	"github.com/aretw0/turing/pkg/persistence/middleware"
	"github.com/aretw0/turing/pkg/ports"
)

// openStore resolves a --store value: "memory", "redis://[:password@]host:port[/db]",
// "sqlite:path" or "file:dir".
func openStore(ctx context.Context, dsn string) (ports.RunStore, io.Closer, error) {
	switch {
	case dsn == "" || dsn == "memory":
		return memory.NewStore(), io.NopCloser(nil), nil

	case strings.HasPrefix(dsn, "redis://"):
		u, err := url.Parse(dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid redis store %q: %w", dsn, err)
		}
		password, _ := u.User.Password()
		db := 0
		if p := strings.Trim(u.Path, "/"); p != "" {
			if db, err = strconv.Atoi(p); err != nil {
				return nil, nil, fmt.Errorf("invalid redis db %q: %w", p, err)
			}
		}

		store := redis.New(u.Host, password, db)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("redis store unreachable: %w", err)
		}
		return store, store, nil

	case strings.HasPrefix(dsn, "sqlite:"):
		store, err := sqlite.Open(strings.TrimPrefix(dsn, "sqlite:"))
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil

	case strings.HasPrefix(dsn, "file:"):
		return file.New(strings.TrimPrefix(dsn, "file:")), io.NopCloser(nil), nil
	}

	return nil, nil, fmt.Errorf("unknown store %q (want memory, redis://host:port, sqlite:path or file:dir)", dsn)
}

// EnvEncryptionKey supplies the run encryption key when --encryption-key is not set.
const EnvEncryptionKey = "TURING_ENCRYPTION_KEY"

// wrapStore applies the persistence middlewares selected on the command line.
// keepTrace < 0 keeps whole traces; key is a hex encoded AES-256 key.
func wrapStore(store ports.RunStore, keepTrace int, key string) (ports.RunStore, error) {
	var mws []middleware.Middleware

	if keepTrace >= 0 {
		mws = append(mws, middleware.NewTraceLimitMiddleware(keepTrace))
	}

	if key == "" {
		key = os.Getenv(EnvEncryptionKey)
	}
	if key != "" {
		raw, err := hex.DecodeString(key)
		if err != nil || len(raw) != 32 {
			return nil, fmt.Errorf("encryption key must be 64 hex characters")
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: raw}))
	}

	return middleware.Chain(store, mws...), nil
}
