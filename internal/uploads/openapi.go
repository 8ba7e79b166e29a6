package uploads

import "github.com/JaimeStill/rental-portal/pkg/openapi"

type spec struct {
	List   *openapi.Operation
	Find   *openapi.Operation
	Upload *openapi.Operation
}

var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List uploads",
		Description: "List recorded uploads with pagination and optional filters",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Items per page", false),
			openapi.QueryParam("search", "string", "Search in original filename and public id", false),
			openapi.QueryParam("sort", "string", "Sort fields, '-' prefix for descending", false),
			openapi.QueryParam("folder", "string", "Filter by folder (contains)", false),
			openapi.QueryParam("resource_type", "string", "Filter by resource type", false),
			openapi.QueryParam("policy", "string", "Filter by upload policy", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Upload ledger page", "UploadPageResult"),
		},
	},
	Find: &openapi.Operation{
		Summary:     "Find upload",
		Description: "Find a recorded upload by ID",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Ledger entry ID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Ledger entry", "UploadEntry"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Upload: &openapi.Operation{
		Summary:     "Upload file",
		Description: "Validate a file against the named policy and upload it to the provider with a signed request.",
		Parameters: []*openapi.Parameter{
			{
				Name:        "policy",
				In:          "path",
				Required:    true,
				Description: "Upload policy",
				Schema:      &openapi.Schema{Type: "string", Enum: []string{"tenant", "admin"}},
			},
		},
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"multipart/form-data": {
					Schema: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"file":   {Type: "string", Format: "binary", Description: "File to upload"},
							"folder": {Type: "string", Description: "Optional sub-folder under the configured folder"},
						},
						Required: []string{"file"},
					},
				},
			},
		},
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Upload stored", "UploadResult"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			413: {Description: "File too large"},
			422: openapi.ResponseJSON("File rejected by policy", "Failure"),
			502: openapi.ResponseRef("BadGateway"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"UploadResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"success":           {Type: "boolean"},
				"secure_url":        {Type: "string"},
				"public_id":         {Type: "string"},
				"original_filename": {Type: "string"},
				"bytes":             {Type: "integer", Format: "int64"},
				"resource_type":     {Type: "string", Enum: []string{"image", "raw"}},
				"format":            {Type: "string"},
			},
		},
		"UploadEntry": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                {Type: "string", Format: "uuid"},
				"public_id":         {Type: "string"},
				"secure_url":        {Type: "string"},
				"resource_type":     {Type: "string"},
				"format":            {Type: "string"},
				"original_filename": {Type: "string"},
				"bytes":             {Type: "integer", Format: "int64"},
				"page_count":        {Type: "integer", Description: "Page count (PDFs only)"},
				"folder":            {Type: "string"},
				"policy":            {Type: "string"},
				"created_at":        {Type: "string", Format: "date-time"},
			},
		},
		"UploadPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("UploadEntry")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
