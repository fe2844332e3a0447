package catalog

import (
	"time"
)

// Czech public holidays for the two operative years.
var czechHolidays = map[string]string{
	"2024-01-01": "Nový rok",
	"2024-04-01": "Velikonoční pondělí",
	"2024-05-01": "Svátek práce",
	"2024-05-08": "Den vítězství",
	"2024-07-05": "Den slovanských věrozvěstů Cyrila a Metoděje",
	"2024-07-06": "Den upálení mistra Jana Husa",
	"2024-09-28": "Den české státnosti",
	"2024-10-28": "Den vzniku samostatného československého státu",
	"2024-11-17": "Den boje za svobodu a demokracii",
	"2024-12-24": "Štědrý den",
	"2024-12-25": "1. svátek vánoční",
	"2024-12-26": "2. svátek vánoční",
	"2025-01-01": "Nový rok",
	"2025-04-21": "Velikonoční pondělí",
	"2025-05-01": "Svátek práce",
	"2025-05-08": "Den vítězství",
	"2025-07-05": "Den slovanských věrozvěstů Cyrila a Metoděje",
	"2025-07-06": "Den upálení mistra Jana Husa",
	"2025-09-28": "Den české státnosti",
	"2025-10-28": "Den vzniku samostatného československého státu",
	"2025-11-17": "Den boje za svobodu a demokracii",
	"2025-12-24": "Štědrý den",
	"2025-12-25": "1. svátek vánoční",
	"2025-12-26": "2. svátek vánoční",
}

// Czech health-insurance providers, keyed by the statutory 3-digit code.
var czechInsuranceProviders = map[string]string{
	"111": "Všeobecná zdravotní pojišťovna České republiky",
	"201": "Vojenská zdravotní pojišťovna České republiky",
	"205": "Česká průmyslová zdravotní pojišťovna",
	"207": "Oborová zdravotní pojišťovna zaměstnanců bank, pojišťoven a stavebnictví",
	"209": "Zaměstnanecká pojišťovna Škoda",
	"211": "Zdravotní pojišťovna ministerstva vnitra České republiky",
	"213": "Revírní bratrská pokladna, zdravotní pojišťovna",
}

// Default durations in minutes per consultation modality.
var consultationDurations = map[string]int{
	"in-person":    30,
	"telemedicine": 20,
	"phone":        15,
	"chat":         10,
}

// Medical specializations the directory can filter on.
var czechSpecializations = []string{
	"praktický lékař",
	"kardiolog",
	"neurolog",
	"dermatolog",
	"gynekolog",
	"urolog",
	"ortoped",
	"pediatr",
	"psychiatr",
	"oftalmolog",
	"endokrinolog",
	"gastroenterolog",
	"pneumolog",
	"onkolog",
}

// The fourteen administrative regions.
var czechRegions = []string{
	"Praha",
	"Středočeský kraj",
	"Jihočeský kraj",
	"Plzeňský kraj",
	"Karlovarský kraj",
	"Ústecký kraj",
	"Liberecký kraj",
	"Královéhradecký kraj",
	"Pardubický kraj",
	"Vysočina",
	"Jihomoravský kraj",
	"Olomoucký kraj",
	"Zlínský kraj",
	"Moravskoslezský kraj",
}

// Retention periods follow Czech health-data law and the portal's GDPR
// policy.
var retentionPolicies = []RetentionPolicy{
	{DataType: "health_records", Days: 3650, AutoDelete: false, LegalBasis: "legal_obligation"},
	{DataType: "prescription_data", Days: 1095, AutoDelete: false, LegalBasis: "legal_obligation"},
	{DataType: "appointment_history", Days: 1095, AutoDelete: true, LegalBasis: "legitimate_interest"},
	{DataType: "chat_conversations", Days: 180, AutoDelete: true, LegalBasis: "consent"},
	{DataType: "audit_logs", Days: 730, AutoDelete: true, LegalBasis: "legal_obligation"},
	{DataType: "analytics_data", Days: 730, AutoDelete: true, LegalBasis: "legitimate_interest"},
	{DataType: "session_data", Days: 1, AutoDelete: true, LegalBasis: "legitimate_interest"},
}

// NewCzech builds the production catalog. It fails only when the Prague
// timezone database is unavailable.
func NewCzech() (*Catalog, error) {
	loc, err := time.LoadLocation("Europe/Prague")
	if err != nil {
		return nil, err
	}
	return &Catalog{
		Holidays:           czechHolidays,
		InsuranceProviders: czechInsuranceProviders,
		Durations:          consultationDurations,
		DefaultDuration:    30,
		Specializations:    czechSpecializations,
		Regions:            czechRegions,
		Business: BusinessHours{
			OpenHour:  8,
			CloseHour: 18,
			Location:  loc,
		},
		Retention: retentionPolicies,
	}, nil
}
