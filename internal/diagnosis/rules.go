package diagnosis

const (
	Influenza             = "Influenza"
	CommonCold            = "Common Cold"
	Covid19               = "COVID-19"
	Migraine              = "Migraine"
	TensionHeadache       = "Tension Headache"
	Sinusitis             = "Sinusitis"
	Bronchitis            = "Bronchitis"
	Pneumonia             = "Pneumonia"
	Asthma                = "Asthma"
	Angina                = "Angina"
	HeartAttack           = "Heart Attack"
	GERD                  = "GERD"
	Tachycardia           = "Tachycardia"
	Hypertension          = "Hypertension"
	HypertensiveCrisis    = "Hypertensive Crisis"
	CardiovascularDisease = "Cardiovascular Disease"
	Allergies             = "Allergies"
	Stress                = "Stress"
)

// SymptomRule adds fixed scores when any of its trigger symptoms is reported.
type SymptomRule struct {
	ID       string
	Triggers []string
	Scores   []Condition
}

// Override raises a condition to a minimum score.
type Override struct {
	Condition string `json:"condition"`
	MinScore  int    `json:"min_score"`
}

var (
	feverRule = SymptomRule{
		ID:       "fever",
		Triggers: []string{"fever", "temperature"},
		Scores:   []Condition{{Influenza, 30}, {CommonCold, 25}, {Covid19, 20}},
	}
	symptomRules = []SymptomRule{
		{ID: "headache", Triggers: []string{"headache"}, Scores: []Condition{{Migraine, 25}, {TensionHeadache, 20}, {Sinusitis, 15}}},
		{ID: "cough", Triggers: []string{"cough"}, Scores: []Condition{{Bronchitis, 25}, {Pneumonia, 20}, {Asthma, 15}}},
		{ID: "chest-pain", Triggers: []string{chestPain}, Scores: []Condition{{Angina, 30}, {HeartAttack, 25}, {GERD, 20}}},
	}
	vitalConditions  = []string{Tachycardia, Hypertension, HypertensiveCrisis, CardiovascularDisease}
	criticalSymptoms = []string{"severe headache", chestPain, "eye pain", "vomiting"}
	fallbackScores   = []Condition{{CommonCold, 30}, {Allergies, 25}, {Stress, 20}}
)

const (
	chestPain = "chest pain"

	feverThreshold = 100.4
	maxScore       = 100
)
