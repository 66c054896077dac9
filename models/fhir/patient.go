package fhir

// Patient is the subset of the FHIR Patient resource consumed when turning
// search results into display records.
type Patient struct {
	ResourceType     string      `json:"resourceType"`
	Id               *string     `json:"id,omitempty"`
	Name             []HumanName `json:"name,omitempty"`
	Gender           *string     `json:"gender,omitempty"`
	BirthDate        *Date       `json:"birthDate,omitempty"`
	Address          []Address   `json:"address,omitempty"`
	DeceasedBoolean  *bool       `json:"deceasedBoolean,omitempty"`
	DeceasedDateTime *string     `json:"deceasedDateTime,omitempty"`
}

// HumanName represents a FHIR HumanName
type HumanName struct {
	Use    *string  `json:"use,omitempty"`
	Text   *string  `json:"text,omitempty"`
	Family *string  `json:"family,omitempty"`
	Given  []string `json:"given,omitempty"`
	Prefix []string `json:"prefix,omitempty"`
}

// Address represents a FHIR Address
type Address struct {
	Use     *string `json:"use,omitempty"`
	City    *string `json:"city,omitempty"`
	State   *string `json:"state,omitempty"`
	Country *string `json:"country,omitempty"`
}
