package model

import "testing"

func TestStructuredData_IsZero(t *testing.T) {
	var nilData *StructuredData
	if !nilData.IsZero() {
		t.Error("nil data should be zero")
	}
	if !(&StructuredData{}).IsZero() {
		t.Error("empty data should be zero")
	}
	d := &StructuredData{Compliance: []string{"SOC 2 Type II"}}
	if d.IsZero() {
		t.Error("data with a compliance fact should not be zero")
	}
}

func TestStructuredData_PopulatedFields(t *testing.T) {
	var nilData *StructuredData
	if got := nilData.PopulatedFields(); got != 0 {
		t.Errorf("nil PopulatedFields() = %d", got)
	}
	d := &StructuredData{
		Pricing:      []string{"$99/mo"},
		LiabilityCap: []string{"12 months of fees"},
		Compliance:   []string{"SOC 2", "ISO 27001"},
	}
	if got := d.PopulatedFields(); got != 3 {
		t.Errorf("PopulatedFields() = %d, want 3", got)
	}
}

func TestFieldByKey(t *testing.T) {
	f := FieldByKey("data_residency")
	if f == nil {
		t.Fatal("data_residency not found")
	}
	if f.Category != CategoryDataSecurity || !f.CriticalGap {
		t.Errorf("data_residency field = %+v", f)
	}
	if FieldByKey("unknown_key") != nil {
		t.Error("unknown key should return nil")
	}
}

func TestFields_AccessorsRoundTrip(t *testing.T) {
	for _, f := range Fields {
		d := &StructuredData{}
		f.Set(d, []string{"fact"})
		got := f.Get(d)
		if len(got) != 1 || got[0] != "fact" {
			t.Errorf("field %s accessor round trip = %v", f.Key, got)
		}
		if d.PopulatedFields() != 1 {
			t.Errorf("field %s set did not populate exactly one field", f.Key)
		}
	}
}

func TestFields_KeysUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, f := range Fields {
		if seen[f.Key] {
			t.Errorf("duplicate field key %q", f.Key)
		}
		seen[f.Key] = true
	}
	if len(Fields) != 13 {
		t.Errorf("Fields has %d entries, want 13", len(Fields))
	}
}
