// Package pg bootstraps the PostgreSQL layer: a pgx/v5 connection pool with
// retrying Connect, goose-driven schema migrations, a health check closure
// and SQLSTATE classification helpers.
//
// The error helpers matter most to the dispatch engine:
// [IsDuplicateKeyError] recognizes unique constraint violations (23505),
// which is how idempotency-key collisions on the event ledger are detected.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//		return err
//	}
package pg
