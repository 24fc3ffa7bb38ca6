package main

import (
	"context"
	"io"

	"github.com/google/renameio/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "contacts.db"
		}
		st, err := store.NewSQLite(dsn)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close() //nolint:errcheck
			return nil, err
		}
		return st, nil
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// recorder writes run history when the store is enabled. A nil recorder
// records nothing. History failures are logged and never fail a command.
type recorder struct {
	st  store.Store
	run *model.Run
}

func beginRun(ctx context.Context, kind model.RunKind, source string) *recorder {
	if cfg == nil || !cfg.Store.Enabled {
		return nil
	}
	st, err := initStore(ctx)
	if err != nil {
		zap.L().Warn("run history unavailable", zap.Error(err))
		return nil
	}
	run, err := st.CreateRun(ctx, kind, source)
	if err != nil {
		zap.L().Warn("run history: create run", zap.Error(err))
		st.Close() //nolint:errcheck
		return nil
	}
	return &recorder{st: st, run: run}
}

func (r *recorder) audit(ctx context.Context, fixes []model.FixEntry, unresolved []model.UnresolvedEntry) {
	if r == nil {
		return
	}
	if err := r.st.SaveFixes(ctx, r.run.ID, fixes); err != nil {
		zap.L().Warn("run history: save fixes", zap.String("run_id", r.run.ID), zap.Error(err))
	}
	if err := r.st.SaveUnresolved(ctx, r.run.ID, unresolved); err != nil {
		zap.L().Warn("run history: save unresolved", zap.String("run_id", r.run.ID), zap.Error(err))
	}
}

func (r *recorder) complete(ctx context.Context, summary map[string]any) {
	if r == nil {
		return
	}
	defer r.st.Close() //nolint:errcheck
	if err := r.st.CompleteRun(ctx, r.run.ID, summary); err != nil {
		zap.L().Warn("run history: complete run", zap.String("run_id", r.run.ID), zap.Error(err))
		return
	}
	zap.L().Info("run recorded", zap.String("run_id", r.run.ID), zap.String("kind", string(r.run.Kind)))
}

// fail records cause and returns it unchanged.
func (r *recorder) fail(ctx context.Context, cause error) error {
	if r == nil {
		return cause
	}
	defer r.st.Close() //nolint:errcheck
	if err := r.st.FailRun(ctx, r.run.ID, cause.Error()); err != nil {
		zap.L().Warn("run history: fail run", zap.String("run_id", r.run.ID), zap.Error(err))
	}
	return cause
}

// writeReport prints text to out, or atomically writes it to path when one
// is given.
func writeReport(out io.Writer, path, text string) error {
	if path == "" {
		_, err := io.WriteString(out, text)
		return err
	}
	if err := renameio.WriteFile(path, []byte(text), 0o644); err != nil {
		return eris.Wrapf(err, "write report %s", path)
	}
	zap.L().Info("report written", zap.String("path", path))
	return nil
}
