package accounts

import "github.com/JaimeStill/rental-portal/pkg/openapi"

type spec struct {
	List       *openapi.Operation
	Create     *openapi.Operation
	Update     *openapi.Operation
	Delete     *openapi.Operation
	Link       *openapi.Operation
	Unlink     *openapi.Operation
	SetDefault *openapi.Operation
}

func mutation(summary, description, body string, success int, params ...*openapi.Parameter) *openapi.Operation {
	op := &openapi.Operation{
		Summary:     summary,
		Description: description,
		Parameters:  params,
		Responses: map[int]*openapi.Response{
			success: openapi.ResponseJSON("Mutation applied; projection re-fetched", "AccountResult"),
			400:     openapi.ResponseRef("BadRequest"),
			401:     openapi.ResponseRef("Unauthorized"),
			404:     openapi.ResponseRef("NotFound"),
			502:     openapi.ResponseRef("BadGateway"),
		},
	}
	if body != "" {
		op.RequestBody = openapi.RequestBodyJSON(body, true)
	}
	return op
}

var (
	idParam       = openapi.PathParam("id", "Account ID")
	propertyParam = openapi.PathParam("property", "Property ID")
)

var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List accounts",
		Description: "Fetch every payment account with its property links",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Account projection", "AccountProjection"),
			401: openapi.ResponseRef("Unauthorized"),
			502: openapi.ResponseRef("BadGateway"),
		},
	},
	Create:     mutation("Create account", "Register a payment account", "CreateAccountCommand", 201),
	Update:     mutation("Update account", "Change account fields", "UpdateAccountCommand", 200, idParam),
	Delete:     mutation("Delete account", "Remove a payment account and its links", "", 200, idParam),
	Link:       mutation("Link property", "Link the account to a property", "LinkCommand", 201, idParam),
	Unlink:     mutation("Unlink property", "Remove the link between the account and a property", "", 200, idParam, propertyParam),
	SetDefault: mutation("Set default", "Make the account the property's default. Refused when the link does not exist.", "", 200, idParam, propertyParam),
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"AccountLink": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"propertyId": {Type: "string"},
				"isDefault":  {Type: "boolean"},
			},
		},
		"Account": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":              {Type: "string"},
				"name":            {Type: "string"},
				"stripeAccountId": {Type: "string"},
				"isGlobalDefault": {Type: "boolean"},
				"links":           {Type: "array", Items: openapi.SchemaRef("AccountLink")},
			},
		},
		"AccountProjection": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"accounts":   {Type: "array", Items: openapi.SchemaRef("Account")},
				"violations": {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
		"AccountResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"success":    {Type: "boolean"},
				"error":      {Type: "string"},
				"projection": openapi.SchemaRef("AccountProjection"),
				"violations": {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
		"CreateAccountCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"name":            {Type: "string"},
				"stripeAccountId": {Type: "string"},
				"isGlobalDefault": {Type: "boolean"},
			},
			Required: []string{"name", "stripeAccountId"},
		},
		"UpdateAccountCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"name":            {Type: "string"},
				"stripeAccountId": {Type: "string"},
				"isGlobalDefault": {Type: "boolean"},
			},
		},
		"LinkCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"propertyId": {Type: "string"},
				"isDefault":  {Type: "boolean"},
			},
			Required: []string{"propertyId"},
		},
	}
}
