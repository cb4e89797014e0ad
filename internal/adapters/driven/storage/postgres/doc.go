// Package postgres provides a Postgres implementation of the medrag stores.
//
// Vectors live in a pgvector vector(768) column and similarity is computed
// in SQL as 1 - (embedding <=> query), the cosine distance operator.
// Connections go through sqlx on top of the pgx stdlib driver.
package postgres
