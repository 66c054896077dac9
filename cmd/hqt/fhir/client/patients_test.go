package client

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

const patientBundle = `{
  "resourceType": "Bundle",
  "type": "searchset",
  "entry": [
    {"resource": {
      "resourceType": "Patient", "id": "p1", "gender": "female", "birthDate": "1970-06-01",
      "name": [
        {"use": "nickname", "given": ["Maggie"]},
        {"use": "official", "prefix": ["Mrs."], "given": ["Margaret"], "family": "Hale"}
      ],
      "address": [{"use": "home", "state": "MA", "country": "US"}],
      "deceasedBoolean": false
    }},
    {"resource": {
      "resourceType": "Patient", "id": "p2", "gender": "male",
      "name": [{"text": "John Thornton"}],
      "deceasedDateTime": "2020-01-01T00:00:00Z"
    }},
    {"resource": {
      "resourceType": "Patient", "id": "p3", "birthDate": "1890-01-01",
      "name": [{"family": "Ancient"}]
    }},
    {"resource": {"resourceType": "OperationOutcome"}}
  ]
}`

func TestSearchPatients_BuildsDisplayRecords(t *testing.T) {
	var gotURL string
	c, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		w.Write([]byte(patientBundle))
	}))
	defer server.Close()

	records, err := c.SearchPatients(context.Background(), "GET "+server.URL+"/Patient?gender=female")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(gotURL, "_count=5000") {
		t.Errorf("fetch URL %q missing the record-count bound", gotURL)
	}

	// p3 is older than the plausibility cutoff and must be dropped.
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(records), records)
	}

	first := records[0]
	if first.ID != "p1" || first.Name != "Mrs. Margaret Hale" {
		t.Errorf("record = %+v, want the official name assembled from its parts", first)
	}
	if first.Gender != "Female" || first.Age != "54" {
		t.Errorf("gender/age = %q/%q, want Female/54", first.Gender, first.Age)
	}
	if first.State != "MA" || first.Country != "US" {
		t.Errorf("address = %q/%q, want MA/US", first.State, first.Country)
	}
	if first.IsAlive != "Yes" {
		t.Errorf("isAlive = %q, want Yes", first.IsAlive)
	}

	second := records[1]
	if second.Name != "John Thornton" {
		t.Errorf("name = %q, want the text form preferred", second.Name)
	}
	if second.Age != "-" {
		t.Errorf("age = %q, want - for a missing birth date", second.Age)
	}
	if second.IsAlive != "No" {
		t.Errorf("isAlive = %q, want No for a deceased date", second.IsAlive)
	}
}

func TestSearchPatients_AgeQueryDropsUnknownAges(t *testing.T) {
	c, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(patientBundle))
	}))
	defer server.Close()

	records, err := c.SearchPatients(context.Background(), "GET "+server.URL+"/Patient?birthdate=le1974-03-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 1 || records[0].ID != "p1" {
		t.Fatalf("records = %+v, want only the patient with a usable birth date", records)
	}
}
