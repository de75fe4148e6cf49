// Package sqlxrepos implements the domain repositories over the Postgres
// document tables: one JSONB document per aggregate, keyed by id, with
// equality lookups on extracted fields.
package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tmbureta/academia/core"
)

type docTable struct {
	db        *sqlx.DB
	name      string
	orderable map[string]bool
}

// newDocTable builds a table handle. Only the listed fields may appear in an
// ORDER BY clause; ordering input reaches the query as SQL text, so each
// repository declares its sortable fields up front and everything else is
// ignored.
func newDocTable(db *sql.DB, name string, orderable ...string) docTable {
	fields := make(map[string]bool, len(orderable))
	for _, f := range orderable {
		fields[f] = true
	}
	return docTable{db: sqlx.NewDb(db, "postgres"), name: name, orderable: fields}
}

// get unmarshals the document with the given id into dest.
// Returns sql.ErrNoRows when missing; callers map it to their ErrNotFound.
func (t docTable) get(ctx context.Context, id string, dest interface{}) error {
	var raw []byte
	if err := t.db.QueryRowxContext(ctx, `SELECT doc FROM `+t.name+` WHERE id = $1`, id).Scan(&raw); err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// insert creates the document; duplicate ids error out.
func (t docTable) insert(ctx context.Context, id string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "marshaling "+t.name+" document")
	}
	_, err = t.db.ExecContext(ctx, `INSERT INTO `+t.name+` (id, doc) VALUES ($1, $2)`, id, raw)
	return err
}

// upsert writes the whole document, replacing any previous version.
func (t docTable) upsert(ctx context.Context, id string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "marshaling "+t.name+" document")
	}
	_, err = t.db.ExecContext(ctx,
		`INSERT INTO `+t.name+` (id, doc) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`, id, raw)
	return err
}

func (t docTable) delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM `+t.name+` WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	_, err = t.db.ExecContext(ctx, t.db.Rebind(query), args...)
	return err
}

// list returns raw documents, optionally filtered by equality on one
// extracted field and ordered by extracted fields.
func (t docTable) list(ctx context.Context, field, value string, orderings ...core.DBOrdering) ([][]byte, error) {
	query := `SELECT doc FROM ` + t.name
	var args []interface{}
	if field != "" {
		query += ` WHERE doc ->> '` + field + `' = $1`
		args = append(args, value)
	}
	query += t.orderBy(orderings)

	rows, err := t.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var docs [][]byte
	for rows.Next() {
		var raw []byte
		if err = rows.Scan(&raw); err != nil {
			return nil, err
		}
		docs = append(docs, raw)
	}
	return docs, rows.Err()
}

// orderBy renders the ORDER BY clause, dropping fields outside the table's
// whitelist. With nothing left to order on it falls back to the primary key.
func (t docTable) orderBy(orderings []core.DBOrdering) string {
	var fields []string
	for _, ord := range orderings {
		if !t.orderable[ord.Field] {
			continue
		}
		direction := "DESC"
		if ord.Ascending {
			direction = "ASC"
		}
		fields = append(fields, fmt.Sprintf("doc ->> '%s' %s", ord.Field, direction))
	}
	if len(fields) == 0 {
		return ` ORDER BY id`
	}
	return ` ORDER BY ` + strings.Join(fields, ", ")
}
