package fhir

import "encoding/json"

// Bundle represents a FHIR searchset bundle. Entry resources are kept raw so
// callers can decode only the resource types they care about.
type Bundle struct {
	ResourceType string        `json:"resourceType"`
	Type         string        `json:"type,omitempty"`
	Total        *int          `json:"total,omitempty"`
	Entry        []BundleEntry `json:"entry,omitempty"`
}

// BundleEntry represents a single entry in a FHIR bundle
type BundleEntry struct {
	FullUrl  *string         `json:"fullUrl,omitempty"`
	Resource json.RawMessage `json:"resource,omitempty"`
}

// resourcePeek is used to sniff the resourceType of a raw entry resource.
type resourcePeek struct {
	ResourceType string `json:"resourceType"`
}

// ResourceType returns the resourceType of the entry's resource, or "" when
// the entry has no decodable resource.
func (e BundleEntry) ResourceType() string {
	if len(e.Resource) == 0 {
		return ""
	}
	var peek resourcePeek
	if err := json.Unmarshal(e.Resource, &peek); err != nil {
		return ""
	}
	return peek.ResourceType
}
