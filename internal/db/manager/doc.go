// Package manager creates the target PostgreSQL database on request.
//
// Database names are quoted with pgx.Identifier.Sanitize, so names with
// spaces, quotes or upper case letters are created exactly as given.
//
//	created, err := manager.New().EnsureDatabase(ctx, db.NewPoolAdapter(maintenancePool), "warehouse")
package manager
