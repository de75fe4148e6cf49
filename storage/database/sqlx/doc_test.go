package sqlxrepos

import (
	"testing"

	"github.com/tmbureta/academia/core"
)

func Test_docTable_orderBy(t *testing.T) {
	table := newDocTable(nil, "users", "name", "created_at")

	tests := []struct {
		name      string
		orderings []core.DBOrdering
		want      string
	}{
		{
			name: "no orderings fall back to the key",
			want: ` ORDER BY id`,
		},
		{
			name:      "ascending field",
			orderings: []core.DBOrdering{{Field: "name", Ascending: true}},
			want:      ` ORDER BY doc ->> 'name' ASC`,
		},
		{
			name:      "descending field",
			orderings: []core.DBOrdering{{Field: "created_at"}},
			want:      ` ORDER BY doc ->> 'created_at' DESC`,
		},
		{
			name: "multiple fields keep their order",
			orderings: []core.DBOrdering{
				{Field: "name", Ascending: true},
				{Field: "created_at"},
			},
			want: ` ORDER BY doc ->> 'name' ASC, doc ->> 'created_at' DESC`,
		},
		{
			name:      "unknown field is dropped",
			orderings: []core.DBOrdering{{Field: "password_hash", Ascending: true}},
			want:      ` ORDER BY id`,
		},
		{
			name:      "injection attempt is dropped",
			orderings: []core.DBOrdering{{Field: "name'; DROP TABLE users; --", Ascending: true}},
			want:      ` ORDER BY id`,
		},
		{
			name: "unknown field among known ones is dropped",
			orderings: []core.DBOrdering{
				{Field: "doc"},
				{Field: "name", Ascending: true},
			},
			want: ` ORDER BY doc ->> 'name' ASC`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.orderBy(tt.orderings); got != tt.want {
				t.Errorf("orderBy() = %q; want %q", got, tt.want)
			}
		})
	}
}
