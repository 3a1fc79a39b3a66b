// Package postgres provides the PostgreSQL implementations of the interfaces in
// internal/store. Queries run through sqlx over the pgx stdlib driver; the schema
// and its SQL functions ship as embedded goose migrations.
package postgres
