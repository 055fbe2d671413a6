package mappers

import (
	"encoding/json"
	"fmt"
	"time"

	"patient-file-service/internal/domain/entities"
)

// OccupationExtensionURL identifies the occupation extension on exported patients.
const OccupationExtensionURL = "http://hl7.org/fhir/StructureDefinition/patient-occupation"

// FHIRHumanName represents a FHIR HumanName data type.
type FHIRHumanName struct {
	Use    string   `json:"use,omitempty"`    // usual | official | temp | nickname | anonymous | old | maiden
	Family string   `json:"family,omitempty"` // Family name (often surname)
	Given  []string `json:"given,omitempty"`  // Given names (not including surname)
}

// FHIRExtension is a FHIR extension carrying a string value.
type FHIRExtension struct {
	URL         string `json:"url"`
	ValueString string `json:"valueString,omitempty"`
}

// FHIRPatientResource represents a simplified FHIR Patient resource.
type FHIRPatientResource struct {
	ResourceType     string          `json:"resourceType"` // Should be "Patient"
	ID               string          `json:"id,omitempty"`
	Name             []FHIRHumanName `json:"name,omitempty"`
	Gender           string          `json:"gender,omitempty"`    // male | female | other | unknown
	BirthDate        string          `json:"birthDate,omitempty"` // YYYY-MM-DD
	DeceasedDateTime string          `json:"deceasedDateTime,omitempty"`
	Extension        []FHIRExtension `json:"extension,omitempty"`
}

// MapPatientFileToFHIR converts a PatientFile to a FHIR Patient resource.
func MapPatientFileToFHIR(file *entities.PatientFile) (json.RawMessage, error) {
	if file == nil {
		return nil, fmt.Errorf("patient file is required for FHIR mapping")
	}

	name := FHIRHumanName{
		Use:    "official",
		Family: file.LastName(),
		Given:  []string{file.FirstName()},
	}
	if second := file.SecondName(); second != nil && *second != "" {
		name.Given = append(name.Given, *second)
	}

	fhirPatient := FHIRPatientResource{
		ResourceType: "Patient",
		ID:           fmt.Sprintf("%d", file.ID()),
		Name:         []FHIRHumanName{name},
		Gender:       file.Gender().FHIRCode(),
		BirthDate:    file.BirthDate().Format("2006-01-02"), // FHIR standard date format
	}
	if death := file.DeathDate(); death != nil {
		fhirPatient.DeceasedDateTime = death.Format(time.RFC3339)
	}
	if occupation := file.Occupation(); occupation != nil && *occupation != "" {
		fhirPatient.Extension = append(fhirPatient.Extension, FHIRExtension{
			URL:         OccupationExtensionURL,
			ValueString: *occupation,
		})
	}

	rawJSON, err := json.MarshalIndent(fhirPatient, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error marshalling FHIR patient resource to JSON: %w", err)
	}
	return rawJSON, nil
}
