package query_test

import (
	"reflect"
	"testing"

	"github.com/JaimeStill/clausewise/pkg/query"
)

var projection = query.NewProjection("contract_analyses", "a").
	Field("id", "ID").
	Field("owner_id", "OwnerID").
	Field("contract_type", "ContractType").
	Field("created_at", "CreatedAt")

func TestBuilder(t *testing.T) {
	recent := query.Order{Field: "CreatedAt", Descending: true}

	tests := []struct {
		name     string
		build    func() (string, []any)
		wantSQL  string
		wantArgs []any
	}{
		{
			"count without conditions",
			func() (string, []any) { return query.NewBuilder(projection).Count() },
			"SELECT COUNT(*) FROM contract_analyses a",
			nil,
		},
		{
			"page with owner and order",
			func() (string, []any) {
				return query.NewBuilder(projection, recent).Equals("OwnerID", "u1").Page(20, 40)
			},
			"SELECT a.id, a.owner_id, a.contract_type, a.created_at FROM contract_analyses a WHERE a.owner_id = $1 ORDER BY a.created_at DESC LIMIT 20 OFFSET 40",
			[]any{"u1"},
		},
		{
			"contains escapes wildcards",
			func() (string, []any) {
				return query.NewBuilder(projection).Equals("OwnerID", "u1").Contains("ContractType", "50%_lease").Count()
			},
			"SELECT COUNT(*) FROM contract_analyses a WHERE a.owner_id = $1 AND a.contract_type ILIKE $2",
			[]any{"u1", `%50\%\_lease%`},
		},
		{
			"empty contains ignored",
			func() (string, []any) {
				return query.NewBuilder(projection).Contains("ContractType", "").EqualsIf(false, "ID", 1).Count()
			},
			"SELECT COUNT(*) FROM contract_analyses a",
			nil,
		},
		{
			"single row",
			func() (string, []any) {
				return query.NewBuilder(projection).Equals("ID", "x").EqualsIf(true, "OwnerID", "u1").One()
			},
			"SELECT a.id, a.owner_id, a.contract_type, a.created_at FROM contract_analyses a WHERE a.id = $1 AND a.owner_id = $2 LIMIT 1",
			[]any{"x", "u1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.build()
			if sql != tt.wantSQL {
				t.Errorf("sql =\n%s\nwant\n%s", sql, tt.wantSQL)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %#v, want %#v", args, tt.wantArgs)
			}
		})
	}
}

func TestUnknownFieldPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown field")
		}
	}()
	query.NewBuilder(projection).Equals("Missing", 1)
}
