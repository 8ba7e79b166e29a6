package uploads

import (
	"strings"

	"github.com/JaimeStill/rental-portal/pkg/signing"
)

// Classify maps a MIME type to the provider resource type.
func Classify(contentType string) ResourceType {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return ResourceImage
	}
	return ResourceRaw
}

// SignableParams returns exactly the parameters that take part in the upload
// signature. Raw assets are pinned to public PDF delivery.
func SignableParams(resource ResourceType, folder, timestamp string) signing.Params {
	params := signing.Params{
		"access_mode": "public",
		"folder":      folder,
		"timestamp":   timestamp,
	}
	if resource == ResourceRaw {
		params["allowed_formats"] = "pdf"
		params["format"] = "pdf"
	}
	return params
}

// FormFields turns a signed parameter set into the multipart fields for resource.
func FormFields(resource ResourceType, signed signing.Params) map[string]string {
	fields := make(map[string]string, len(signed)+2)
	for k, v := range signed {
		fields[k] = v
	}
	if resource == ResourceRaw {
		fields["resource_type"] = "raw"
		fields["flags"] = "trusted"
	}
	return fields
}
