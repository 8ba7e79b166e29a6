package query_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/JaimeStill/rental-portal/pkg/query"
)

const uploadsSelect = "SELECT u.id, u.public_id, u.original_filename, u.resource_type, u.created_at FROM public.uploads u"

func uploadsProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "uploads", "u").
		Project("id", "ID").
		Project("public_id", "PublicID").
		Project("original_filename", "OriginalFilename").
		Project("resource_type", "ResourceType").
		Project("created_at", "CreatedAt")
}

func TestBuilder_BuildCount(t *testing.T) {
	sql, args := query.NewBuilder(uploadsProjection()).BuildCount()

	if want := "SELECT COUNT(*) FROM public.uploads u"; sql != want {
		t.Errorf("BuildCount() sql = %q, want %q", sql, want)
	}
	if len(args) != 0 {
		t.Errorf("BuildCount() args = %v, want empty", args)
	}
}

func TestBuilder_BuildPage(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		want     string
	}{
		{"first page", 1, 20, " LIMIT 20 OFFSET 0"},
		{"second page", 2, 20, " LIMIT 20 OFFSET 20"},
		{"third page", 3, 10, " LIMIT 10 OFFSET 20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := query.NewBuilder(uploadsProjection(), query.SortField{Field: "CreatedAt", Descending: true})
			sql, _ := b.BuildPage(tt.page, tt.pageSize)

			want := uploadsSelect + " ORDER BY u.created_at DESC" + tt.want
			if sql != want {
				t.Errorf("BuildPage(%d, %d) = %q, want %q", tt.page, tt.pageSize, sql, want)
			}
		})
	}
}

func TestBuilder_BuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(uploadsProjection()).BuildSingle("PublicID", "tenant/abc")

	if want := uploadsSelect + " WHERE u.public_id = $1"; sql != want {
		t.Errorf("BuildSingle() sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"tenant/abc"}) {
		t.Errorf("BuildSingle() args = %v, want [tenant/abc]", args)
	}
}

func TestBuilder_Conditions(t *testing.T) {
	resource := "image"
	search := "lease"
	empty := ""
	var missing *string

	b := query.NewBuilder(uploadsProjection()).
		WhereEquals("ResourceType", &resource).
		WhereEquals("PublicID", missing).
		WhereContains("OriginalFilename", &empty).
		WhereSearch(&search, "OriginalFilename", "PublicID")

	sql, args := b.BuildCount()

	want := "SELECT COUNT(*) FROM public.uploads u WHERE u.resource_type = $1 AND (u.original_filename ILIKE $2 OR u.public_id ILIKE $3)"
	if sql != want {
		t.Errorf("BuildCount() sql = %q, want %q", sql, want)
	}
	if wantArgs := []any{"image", "%lease%", "%lease%"}; !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("BuildCount() args = %v, want %v", args, wantArgs)
	}
}

func TestBuilder_OrderByFields(t *testing.T) {
	b := query.NewBuilder(uploadsProjection(), query.SortField{Field: "CreatedAt", Descending: true}).
		OrderByFields([]query.SortField{
			{Field: "OriginalFilename"},
			{Field: "Unknown", Descending: true},
		})

	sql, _ := b.BuildPage(1, 5)

	if !strings.Contains(sql, " ORDER BY u.original_filename ASC LIMIT 5") {
		t.Errorf("BuildPage() missing order by, got %q", sql)
	}
	if strings.Contains(sql, "Unknown") {
		t.Errorf("BuildPage() kept unknown sort field, got %q", sql)
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{"empty", "", nil},
		{
			"mixed",
			"original_filename, -created_at,,public_id",
			[]query.SortField{
				{Field: "OriginalFilename"},
				{Field: "CreatedAt", Descending: true},
				{Field: "PublicID"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := query.ParseSortFields(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSortFields(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestProjectionMap(t *testing.T) {
	p := uploadsProjection()

	if got := p.Alias(); got != "u" {
		t.Errorf("Alias() = %q, want u", got)
	}
	if got := p.Table(); got != "public.uploads u" {
		t.Errorf("Table() = %q, want %q", got, "public.uploads u")
	}

	columns := []struct {
		field string
		want  string
	}{
		{"PublicID", "u.public_id"},
		{"Other", "Other"},
	}
	for _, c := range columns {
		if got := p.Column(c.field); got != c.want {
			t.Errorf("Column(%q) = %q, want %q", c.field, got, c.want)
		}
	}

	if !p.Has("CreatedAt") {
		t.Error("Has(CreatedAt) = false, want true")
	}
	if p.Has("Other") {
		t.Error("Has(Other) = true, want false")
	}

	cols := p.ColumnList()
	cols[0] = "mutated"
	if got := p.ColumnList()[0]; got != "u.id" {
		t.Errorf("ColumnList() shares backing array, got %q", got)
	}
}
