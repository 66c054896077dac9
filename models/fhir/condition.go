package fhir

// Condition is the subset of the FHIR Condition resource consumed when
// resolving a condition lookup to its subject references.
type Condition struct {
	ResourceType string           `json:"resourceType"`
	Id           *string          `json:"id,omitempty"`
	Code         *CodeableConcept `json:"code,omitempty"`
	Subject      *Reference       `json:"subject,omitempty"`
}

// CodeableConcept represents a FHIR CodeableConcept
type CodeableConcept struct {
	Coding []Coding `json:"coding,omitempty"`
	Text   *string  `json:"text,omitempty"`
}

// Coding represents a FHIR Coding
type Coding struct {
	System  *string `json:"system,omitempty"`
	Code    *string `json:"code,omitempty"`
	Display *string `json:"display,omitempty"`
}

// Reference represents a FHIR Reference
type Reference struct {
	Reference *string `json:"reference,omitempty"`
	Display   *string `json:"display,omitempty"`
}
