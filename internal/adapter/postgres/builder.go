package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Builder returns a squirrel statement builder using $n placeholders.
func Builder() squirrel.StatementBuilderType {
	return psql
}

// EscapeLike escapes LIKE wildcards so s matches literally.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// SendBatchExec executes every queued statement of batch and returns the
// total number of affected rows.
func SendBatchExec(ctx context.Context, q Querier, batch *pgx.Batch) (int, error) {
	results := q.SendBatch(ctx, batch)
	defer results.Close()

	var affected int
	for range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			return affected, fmt.Errorf("batch exec: %w", err)
		}
		affected += int(tag.RowsAffected())
	}

	return affected, nil
}
