// Package psqlbuilder wraps squirrel with PostgreSQL ($1, $2, ...) placeholders
// so repositories do not repeat the placeholder format on every query.
package psqlbuilder

import "github.com/Masterminds/squirrel"

var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Select starts a SELECT query with dollar placeholders
func Select(columns ...string) squirrel.SelectBuilder {
	return builder.Select(columns...)
}

// Insert starts an INSERT query with dollar placeholders
func Insert(into string) squirrel.InsertBuilder {
	return builder.Insert(into)
}

// Update starts an UPDATE query with dollar placeholders
func Update(table string) squirrel.UpdateBuilder {
	return builder.Update(table)
}

// Delete starts a DELETE query with dollar placeholders
func Delete(from string) squirrel.DeleteBuilder {
	return builder.Delete(from)
}
