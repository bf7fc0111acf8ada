package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/serlyo/pkg/adapters/fs"
	"github.com/aretw0/serlyo/pkg/adapters/memory"
	"github.com/aretw0/serlyo/pkg/adapters/sqlite"
	"github.com/aretw0/serlyo/pkg/core"
	"github.com/aretw0/serlyo/pkg/git"
	"github.com/aretw0/serlyo/pkg/typed"
)

// OpenStore builds and initializes the store selected by the options.
// The uri is adapter-specific: a directory for fs, a file or directory for
// sqlite, ignored for memory.
func OpenStore(ctx context.Context, uri string, opts ...Option) (core.Store, error) {
	return openStore(ctx, uri, buildOptions(opts))
}

func openStore(ctx context.Context, uri string, o *options) (core.Store, error) {
	if o.store != nil {
		return o.store, nil
	}

	var (
		store core.Store
		err   error
	)
	switch o.adapter {
	case AdapterFS, "":
		store, err = initFS(uri, o)
	case AdapterSQLite:
		store = sqlite.New(sqlite.Config{
			Path:     sqlitePath(resolvePath(uri, o)),
			ReadOnly: o.readOnly,
			Logger:   o.logger,
		})
	case AdapterMemory:
		store = memory.New(memory.WithLogger(o.logger), memory.WithReadOnly(o.readOnly))
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if err := store.Initialize(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// resolvePath applies the dev sandbox unless the store is read-only or the
// sandbox is disabled.
func resolvePath(path string, o *options) string {
	bypass := o.readOnly || !o.devSafety
	useTemp := o.forceTemp || (IsDevRun() && !bypass)
	resolved := ResolveStorePath(path, useTemp)

	if IsDevRun() {
		switch {
		case o.readOnly:
			o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolved)
		case bypass:
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		default:
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		}
	}
	if useTemp && resolved != path {
		o.logger.Warn("store redirected to sandbox", "original_path", path, "resolved_path", resolved)
	}
	return resolved
}

// sqlitePath treats a path without extension as a directory holding the default database file.
func sqlitePath(path string) string {
	if filepath.Ext(path) == "" {
		return filepath.Join(path, sqlite.DefaultFile)
	}
	return path
}

func initFS(path string, o *options) (core.Store, error) {
	resolved := resolvePath(path, o)

	serializer, err := typed.SerializerFor(o.format)
	if err != nil {
		return nil, err
	}

	// Without an explicit choice, a directory already under git is versioned.
	versioning := false
	if o.versioning != nil {
		versioning = *o.versioning
	} else if _, err := os.Stat(filepath.Join(resolved, ".git")); err == nil {
		versioning = git.IsInstalled()
		o.logger.Debug("auto-detected versioning", "enabled", versioning)
	}

	return fs.New(fs.Config{
		Path:         resolved,
		Extension:    serializer.Extension(),
		Versioning:   versioning,
		AutoInit:     o.autoInit || o.versioning != nil && *o.versioning,
		MustExist:    o.mustExist,
		ReadOnly:     o.readOnly,
		Logger:       o.logger,
		ErrorHandler: o.errorHandler,
	}), nil
}
