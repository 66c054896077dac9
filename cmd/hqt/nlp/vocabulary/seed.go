package vocabulary

// seedEntries is the built-in condition table, keyed by canonical term.
// ICD-10 carries the general diagnosis code, SNOMED CT the clinical term.
var seedEntries = []ConditionEntry{
	{Term: "diabetes", ICD10: "E11", SNOMED: "73211009", Display: "Diabetes mellitus"},
	{Term: "hypertension", ICD10: "I10", SNOMED: "38341003", Display: "Hypertension"},
	{Term: "asthma", ICD10: "J45", SNOMED: "195967001", Display: "Asthma"},
	{Term: "copd", ICD10: "J44", SNOMED: "13645005", Display: "COPD"},
	{Term: "cancer", ICD10: "C80", SNOMED: "363346000", Display: "Malignant neoplasm"},
	{Term: "covid", ICD10: "U07.1", SNOMED: "840539006", Display: "COVID-19"},
	{Term: "pneumonia", ICD10: "J18", SNOMED: "233604007", Display: "Pneumonia"},
	{Term: "heart disease", ICD10: "I51", SNOMED: "56265001", Display: "Heart disease"},
	{Term: "stroke", ICD10: "I64", SNOMED: "230690007", Display: "Stroke"},
	{Term: "anxiety", ICD10: "F41.9", SNOMED: "48694002", Display: "Anxiety disorder"},
	{Term: "depression", ICD10: "F32.9", SNOMED: "35489007", Display: "Depressive disorder"},
	{Term: "migraine", ICD10: "G43.9", SNOMED: "37796009", Display: "Migraine"},
	{Term: "arthritis", ICD10: "M19.90", SNOMED: "3723001", Display: "Arthritis"},
	{Term: "obesity", ICD10: "E66.9", SNOMED: "414915002", Display: "Obesity"},
	{Term: "allergy", ICD10: "T78.40", SNOMED: "418917006", Display: "Allergy to substance"},
	{Term: "dementia", ICD10: "F03", SNOMED: "52448006", Display: "Dementia"},
}

// Seed returns a copy of the built-in condition table and alias map, for
// tools that push the vocabulary into external storage.
func Seed() ([]ConditionEntry, map[string]string) {
	entries := make([]ConditionEntry, len(seedEntries))
	copy(entries, seedEntries)

	aliases := make(map[string]string, len(seedAliases))
	for alias, term := range seedAliases {
		aliases[alias] = term
	}
	return entries, aliases
}

// seedAliases maps lexical variants (mostly adjective forms) to canonical terms.
var seedAliases = map[string]string{
	"diabetic":     "diabetes",
	"hypertensive": "hypertension",
	"asthmatic":    "asthma",
	"cancerous":    "cancer",
	"anxious":      "anxiety",
	"depressed":    "depression",
	"arthritic":    "arthritis",
	"obese":        "obesity",
	"allergic":     "allergy",
	"migraines":    "migraine",
	"overweight":   "obesity",
}
