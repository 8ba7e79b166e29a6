package documents

import "github.com/JaimeStill/rental-portal/pkg/openapi"

type spec struct {
	Update *openapi.Operation
	Delete *openapi.Operation
}

var Spec = spec{
	Update: &openapi.Operation{
		Summary:     "Update document",
		Description: "Forward a partial update to the backend document record",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Backend document ID"),
		},
		RequestBody: openapi.RequestBodyJSON("DocumentFields", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Document updated", "DocumentResult"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
			502: openapi.ResponseRef("BadGateway"),
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete document",
		Description: "Remove the stored provider asset (best effort) and delete the backend document record. Asset cleanup failures are reported in the cleanup field and never fail the request.",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Backend document ID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Document deleted", "DocumentDeleteResult"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseJSON("Document not found", "DocumentDeleteResult"),
			502: openapi.ResponseJSON("Backend unreachable", "DocumentDeleteResult"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"DocumentFields": {
			Type:        "object",
			Description: "Fields forwarded verbatim to the backend",
		},
		"Document": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":               {Type: "string"},
				"publicId":         {Type: "string"},
				"secureUrl":        {Type: "string"},
				"originalFilename": {Type: "string"},
				"bytes":            {Type: "integer", Format: "int64"},
				"resourceType":     {Type: "string"},
				"format":           {Type: "string"},
			},
		},
		"DocumentResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"success": {Type: "boolean"},
				"error":   {Type: "string"},
				"data":    openapi.SchemaRef("Document"),
			},
		},
		"DocumentDeleteResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"success": {Type: "boolean"},
				"error":   {Type: "string"},
				"cleanup": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"status":    {Type: "string", Enum: []string{"deleted", "failed", "skipped"}},
						"public_id": {Type: "string"},
						"source":    {Type: "string", Enum: []string{"record", "ledger", "url"}},
						"error":     {Type: "string"},
					},
				},
			},
		},
	}
}
