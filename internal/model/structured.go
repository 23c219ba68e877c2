package model

// StructuredData holds the facts extracted from a vendor's legal and
// commercial documents. Each field is a list of short fact strings; an empty
// list means nothing was extracted for that category.
type StructuredData struct {
	Pricing         []string `json:"pricing,omitempty"`
	Fees            []string `json:"fees,omitempty"`
	LiabilityCap    []string `json:"liability_cap,omitempty"`
	Indemnification []string `json:"indemnification,omitempty"`
	Termination     []string `json:"termination,omitempty"`
	Renewal         []string `json:"renewal,omitempty"`
	DataRetention   []string `json:"data_retention,omitempty"`
	DataResidency   []string `json:"data_residency,omitempty"`
	Encryption      []string `json:"encryption,omitempty"`
	Compliance      []string `json:"compliance,omitempty"`
	SLAUptime       []string `json:"sla_uptime,omitempty"`
	SupportResponse []string `json:"support_response,omitempty"`
	DataExport      []string `json:"data_export,omitempty"`
}

// Field describes one StructuredData category: its wire key, human label,
// risk category, and accessors. The Fields table is the single source of
// truth for iteration order in summaries and findings.
type Field struct {
	Key      string
	Label    string
	Category Category

	// CriticalGap marks fields whose absence is itself a high-concern signal.
	CriticalGap bool

	Get func(*StructuredData) []string
	Set func(*StructuredData, []string)
}

// Fields lists all StructuredData categories in canonical display order.
var Fields = []Field{
	{"pricing", "Pricing", CategoryFinancial, false,
		func(d *StructuredData) []string { return d.Pricing },
		func(d *StructuredData, v []string) { d.Pricing = v }},
	{"fees", "Fees", CategoryFinancial, false,
		func(d *StructuredData) []string { return d.Fees },
		func(d *StructuredData, v []string) { d.Fees = v }},
	{"liability_cap", "Liability cap", CategoryLegal, true,
		func(d *StructuredData) []string { return d.LiabilityCap },
		func(d *StructuredData, v []string) { d.LiabilityCap = v }},
	{"indemnification", "Indemnification", CategoryLegal, true,
		func(d *StructuredData) []string { return d.Indemnification },
		func(d *StructuredData, v []string) { d.Indemnification = v }},
	{"termination", "Termination", CategoryLegal, false,
		func(d *StructuredData) []string { return d.Termination },
		func(d *StructuredData, v []string) { d.Termination = v }},
	{"renewal", "Renewal", CategoryLegal, false,
		func(d *StructuredData) []string { return d.Renewal },
		func(d *StructuredData, v []string) { d.Renewal = v }},
	{"data_retention", "Data retention", CategoryDataSecurity, false,
		func(d *StructuredData) []string { return d.DataRetention },
		func(d *StructuredData, v []string) { d.DataRetention = v }},
	{"data_residency", "Data residency", CategoryDataSecurity, true,
		func(d *StructuredData) []string { return d.DataResidency },
		func(d *StructuredData, v []string) { d.DataResidency = v }},
	{"encryption", "Encryption", CategoryDataSecurity, false,
		func(d *StructuredData) []string { return d.Encryption },
		func(d *StructuredData, v []string) { d.Encryption = v }},
	{"compliance", "Compliance", CategoryDataSecurity, true,
		func(d *StructuredData) []string { return d.Compliance },
		func(d *StructuredData, v []string) { d.Compliance = v }},
	{"sla_uptime", "SLA / uptime", CategoryOperational, false,
		func(d *StructuredData) []string { return d.SLAUptime },
		func(d *StructuredData, v []string) { d.SLAUptime = v }},
	{"support_response", "Support response", CategoryOperational, false,
		func(d *StructuredData) []string { return d.SupportResponse },
		func(d *StructuredData, v []string) { d.SupportResponse = v }},
	{"data_export", "Data export rights", CategoryDataSecurity, false,
		func(d *StructuredData) []string { return d.DataExport },
		func(d *StructuredData, v []string) { d.DataExport = v }},
}

// FieldByKey returns the Field descriptor for a wire key, or nil for
// unrecognized keys.
func FieldByKey(key string) *Field {
	for i := range Fields {
		if Fields[i].Key == key {
			return &Fields[i]
		}
	}
	return nil
}

// IsZero reports whether no field holds any facts.
func (d *StructuredData) IsZero() bool {
	if d == nil {
		return true
	}
	for _, f := range Fields {
		if len(f.Get(d)) > 0 {
			return false
		}
	}
	return true
}

// PopulatedFields returns the number of fields holding at least one fact.
func (d *StructuredData) PopulatedFields() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, f := range Fields {
		if len(f.Get(d)) > 0 {
			n++
		}
	}
	return n
}
