package validator

import "testing"

type windowRequest struct {
	StartDate string `json:"startDate" validate:"required,iso_date"`
	StartTime string `json:"startTime" validate:"required,clock"`
	Method    string `json:"method" validate:"omitempty,payment_method"`
	Latitude  string `json:"originLatitude" validate:"omitempty,latitude"`
}

func TestValidateUsesJSONNamesAndCustomTags(t *testing.T) {
	errs := Validate(&windowRequest{StartDate: "01/06/2024", StartTime: "25:00", Method: "boleto", Latitude: "-123.5"})
	for _, field := range []string{"startDate", "startTime", "method", "originLatitude"} {
		if _, ok := errs[field]; !ok {
			t.Fatalf("expected error for %s, got %v", field, errs)
		}
	}

	if errs := Validate(&windowRequest{StartDate: "2024-06-01", StartTime: "10:00", Method: "pix", Latitude: "-23.55"}); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}
}
