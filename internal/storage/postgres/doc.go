// Package postgres implements rawload.Session on a pgx connection pool.
package postgres
