package uploads

import (
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/rental-portal/pkg/query"
	"github.com/JaimeStill/rental-portal/pkg/repository"
)

// Entry is the ledger row written for every successful upload. It keeps the
// provider public id next to the secure URL so deletion never has to derive it.
type Entry struct {
	ID               uuid.UUID    `json:"id"`
	PublicID         string       `json:"public_id"`
	SecureURL        string       `json:"secure_url"`
	ResourceType     ResourceType `json:"resource_type"`
	Format           *string      `json:"format,omitempty"`
	OriginalFilename *string      `json:"original_filename,omitempty"`
	Bytes            *int64       `json:"bytes,omitempty"`
	PageCount        *int         `json:"page_count,omitempty"`
	Folder           string       `json:"folder"`
	Policy           string       `json:"policy"`
	CreatedAt        time.Time    `json:"created_at"`
}

// RecordCommand carries what the ledger needs from a completed upload.
type RecordCommand struct {
	Result    Result
	PageCount *int
	Folder    string
	Policy    string
}

var projection = query.NewProjectionMap("public", "uploads", "u").
	Project("id", "ID").
	Project("public_id", "PublicID").
	Project("secure_url", "SecureURL").
	Project("resource_type", "ResourceType").
	Project("format", "Format").
	Project("original_filename", "OriginalFilename").
	Project("bytes", "Bytes").
	Project("page_count", "PageCount").
	Project("folder", "Folder").
	Project("policy", "Policy").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

func scanEntry(s repository.Scanner) (Entry, error) {
	var e Entry
	err := s.Scan(
		&e.ID,
		&e.PublicID,
		&e.SecureURL,
		&e.ResourceType,
		&e.Format,
		&e.OriginalFilename,
		&e.Bytes,
		&e.PageCount,
		&e.Folder,
		&e.Policy,
		&e.CreatedAt,
	)
	return e, err
}

// Filters narrows ledger listings.
type Filters struct {
	Folder       *string
	ResourceType *string
	Policy       *string
}

// FiltersFromQuery extracts ledger filters from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("folder"); v != "" {
		f.Folder = &v
	}
	if v := values.Get("resource_type"); v != "" {
		f.ResourceType = &v
	}
	if v := values.Get("policy"); v != "" {
		f.Policy = &v
	}

	return f
}

// Apply adds filter conditions to the query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Folder", f.Folder).
		WhereEquals("ResourceType", f.ResourceType).
		WhereEquals("Policy", f.Policy)
}
