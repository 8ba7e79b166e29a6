package dropzone

import "github.com/JaimeStill/rental-portal/pkg/openapi"

type spec struct {
	Batch *openapi.Operation
}

var Spec = spec{
	Batch: &openapi.Operation{
		Summary:     "Upload batch",
		Description: "Validate every file independently, then upload the accepted files in parallel. Rejected files are reported with their reason and never block the rest of the batch.",
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
							"files":  {Type: "array", Items: &openapi.Schema{Type: "string", Format: "binary"}},
							"folder": {Type: "string", Description: "Optional sub-folder under the configured folder"},
						},
						Required: []string{"files"},
					},
				},
			},
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Per-file results", "BatchResult"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			413: {Description: "Batch too large"},
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"BatchFile": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"name":         {Type: "string"},
				"content_type": {Type: "string"},
				"size":         {Type: "integer", Format: "int64"},
				"state":        {Type: "string", Enum: []string{"pending", "uploading", "done", "rejected"}},
				"reason":       {Type: "string", Description: "Rejection reason"},
				"error":        {Type: "string"},
				"result":       openapi.SchemaRef("UploadResult"),
			},
		},
		"BatchResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"batch": {Type: "string", Format: "uuid"},
				"files": {Type: "array", Items: openapi.SchemaRef("BatchFile")},
				"progress": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"pending":   {Type: "integer"},
						"uploading": {Type: "integer"},
						"done":      {Type: "integer"},
						"rejected":  {Type: "integer"},
						"total":     {Type: "integer"},
					},
				},
			},
		},
	}
}
