// Package database manages the warehouse connection pool.
package database
