// Package db connects to the PostgreSQL database that records letter requests
// and sender responses.
//
// Connect opens a pgx pool, retrying with a linear backoff while the database
// comes up. Migrate applies goose migrations from any fs.FS, normally the
// embedded set shipped by package letterstore. Healthcheck returns a probe for
// the service's readiness endpoint and WithTx runs a function in a transaction.
//
//	pool, err := db.Connect(ctx, cfg.Database)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := db.Migrate(ctx, pool, letterstore.Migrations(), cfg.Database.MigrationsTable, log); err != nil {
//		return err
//	}
package db
