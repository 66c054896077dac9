package client

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/ireish/healthcare-query-tool/models/fhir"
)

const (
	// fetchCount bounds how many resources one patient search pulls from the
	// repository.
	fetchCount = 5000
	// maxRecords caps what is handed back to the caller; larger result sets
	// are randomly sampled down.
	maxRecords = 500
	// maxPlausibleAge filters out records with garbage birth dates.
	maxPlausibleAge = 110
)

// PatientRecord is the display form of one patient search hit.
type PatientRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Gender  string `json:"gender"`
	Age     string `json:"age"`
	State   string `json:"state"`
	Country string `json:"country"`
	IsAlive string `json:"isAlive"`

	age int // -1 when unknown; used for filtering only
}

// SearchPatients executes a patient query line and returns display records.
// Results with implausible ages are dropped; for birthdate-constrained
// queries records without a usable birth date are dropped too, and oversized
// result sets are sampled down.
func (c *Client) SearchPatients(ctx context.Context, patientQuery string) ([]PatientRecord, error) {
	url, err := parseQueryLine(patientQuery)
	if err != nil {
		return nil, err
	}
	url = appendParam(url, fmt.Sprintf("_count=%d", fetchCount))

	bundle, err := c.fetchBundle(ctx, url)
	if err != nil {
		return nil, err
	}

	ageBased := strings.Contains(patientQuery, "birthdate=")

	records := make([]PatientRecord, 0, len(bundle.Entry))
	for _, entry := range bundle.Entry {
		if entry.ResourceType() != "Patient" {
			continue
		}
		var patient fhir.Patient
		if err := json.Unmarshal(entry.Resource, &patient); err != nil {
			c.log.Debug().Err(err).Msg("Skipping undecodable Patient entry")
			continue
		}
		record := c.buildRecord(patient)
		if record.age > maxPlausibleAge {
			continue
		}
		records = append(records, record)
	}

	// Age-filtered searches must not show patients whose age is unknown.
	// Other searches only shed them under load.
	if ageBased || len(records) > maxRecords {
		kept := records[:0]
		for _, record := range records {
			if record.age != -1 {
				kept = append(kept, record)
			}
		}
		records = kept
	}

	if len(records) > maxRecords {
		rand.Shuffle(len(records), func(i, j int) {
			records[i], records[j] = records[j], records[i]
		})
		records = records[:maxRecords]
	}

	c.log.Info().
		Int("entries", len(bundle.Entry)).
		Int("records", len(records)).
		Msg("Processed patient search results")
	return records, nil
}

func (c *Client) buildRecord(patient fhir.Patient) PatientRecord {
	record := PatientRecord{
		ID:      "-",
		Name:    patientName(patient.Name),
		Gender:  "-",
		Age:     "-",
		State:   addressPart(patient.Address, func(a fhir.Address) *string { return a.State }),
		Country: addressPart(patient.Address, func(a fhir.Address) *string { return a.Country }),
		IsAlive: aliveFlag(patient),
		age:     -1,
	}

	if patient.Id != nil {
		record.ID = *patient.Id
	}
	if patient.Gender != nil && *patient.Gender != "" {
		record.Gender = strings.ToUpper((*patient.Gender)[:1]) + (*patient.Gender)[1:]
	}
	if patient.BirthDate != nil && !patient.BirthDate.IsZero() {
		record.age = patient.BirthDate.AgeAt(c.today())
		record.Age = strconv.Itoa(record.age)
	}
	return record
}

// patientName assembles a display name, preferring the official-use entry and
// its text form over the assembled prefix/given/family parts.
func patientName(names []fhir.HumanName) string {
	if len(names) == 0 {
		return "-"
	}

	name := names[0]
	for _, n := range names {
		if n.Use != nil && *n.Use == "official" {
			name = n
			break
		}
	}

	if name.Text != nil && *name.Text != "" {
		return *name.Text
	}

	parts := append([]string{}, name.Prefix...)
	parts = append(parts, name.Given...)
	if name.Family != nil {
		parts = append(parts, *name.Family)
	}
	assembled := strings.TrimSpace(strings.Join(parts, " "))
	if assembled == "" {
		return "-"
	}
	return assembled
}

// addressPart pulls one field from the home address, falling back to the
// first address on record.
func addressPart(addresses []fhir.Address, field func(fhir.Address) *string) string {
	if len(addresses) == 0 {
		return "-"
	}

	address := addresses[0]
	for _, a := range addresses {
		if a.Use != nil && *a.Use == "home" {
			address = a
			break
		}
	}

	if value := field(address); value != nil && *value != "" {
		return *value
	}
	return "-"
}

func aliveFlag(patient fhir.Patient) string {
	if (patient.DeceasedBoolean != nil && *patient.DeceasedBoolean) ||
		(patient.DeceasedDateTime != nil && *patient.DeceasedDateTime != "") {
		return "No"
	}
	if patient.DeceasedBoolean != nil {
		return "Yes"
	}
	return "-"
}
