package diagnosis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

func TestScore_EmptyInputFallsBack(t *testing.T) {
	result := Score(Input{})

	assert.Equal(t, Conditions{{CommonCold, 30}, {Allergies, 25}, {Stress, 20}}, result.Diseases)
	assert.Equal(t, RiskMedium, result.RiskLevel)
	assert.False(t, result.IsEmergency)
	assert.Zero(t, result.SeverityScore)
}

func TestScore_ChestPainHypertensiveCrisis(t *testing.T) {
	result := Score(Input{Symptoms: "chest pain", SystolicBP: intp(190), DiastolicBP: intp(70)})

	assert.Equal(t, Conditions{
		{HypertensiveCrisis, 90},
		{HeartAttack, 85},
		{CardiovascularDisease, 40},
		{Angina, 30},
		{GERD, 20},
		{Tachycardia, 0},
		{Hypertension, 0},
	}, result.Diseases)
	assert.True(t, result.IsEmergency)
	assert.Equal(t, RiskCritical, result.RiskLevel)
	assert.Equal(t, 75, result.SeverityScore)
}

func TestScore_HighFever(t *testing.T) {
	result := Score(Input{Symptoms: "fever", Temperature: floatp(104)})

	influenza, _ := result.Diseases.Get(Influenza)
	covid, _ := result.Diseases.Get(Covid19)
	cold, _ := result.Diseases.Get(CommonCold)
	assert.Equal(t, 60, influenza)
	assert.Equal(t, 45, covid)
	assert.Equal(t, 25, cold)
	assert.Equal(t, Influenza, result.Diseases[0].Name)
	assert.False(t, result.IsEmergency)
	assert.Equal(t, RiskHigh, result.RiskLevel)
}

func TestScore_HeadacheWithTachycardia(t *testing.T) {
	result := Score(Input{Symptoms: "headache", HeartRate: intp(140)})

	assert.Equal(t, Condition{Tachycardia, 80}, result.Diseases[0])
	for name, want := range map[string]int{Migraine: 25, TensionHeadache: 20, Sinusitis: 15} {
		got, ok := result.Diseases.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	assert.True(t, result.IsEmergency)
	assert.Equal(t, RiskCritical, result.RiskLevel)
}

func TestScore_ZeroVitalsCountAsAbsent(t *testing.T) {
	cases := []struct {
		name   string
		absent Input
		zeroed Input
	}{
		{"systolic", Input{Symptoms: "chest pain"}, Input{Symptoms: "chest pain", SystolicBP: intp(0)}},
		{"diastolic", Input{Symptoms: "cough"}, Input{Symptoms: "cough", DiastolicBP: intp(0)}},
		{"heart rate", Input{Symptoms: "chest pain"}, Input{Symptoms: "chest pain", HeartRate: intp(0)}},
		{"temperature", Input{Symptoms: "fever"}, Input{Symptoms: "fever", Temperature: floatp(0)}},
		{"all", Input{}, Input{HeartRate: intp(0), SystolicBP: intp(0), DiastolicBP: intp(0), Temperature: floatp(0)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, Score(tc.absent), Score(tc.zeroed))
		})
	}
}

func TestScore_PulseRateIgnored(t *testing.T) {
	base := Input{Symptoms: "cough", SystolicBP: intp(150)}
	withPulse := base
	withPulse.PulseRate = intp(200)

	assert.Equal(t, Score(base), Score(withPulse))
}

func TestScore_NormalizesSymptoms(t *testing.T) {
	result := Score(Input{Symptoms: "  Fever , HEADACHE,,"})

	_, hasFlu := result.Diseases.Get(Influenza)
	_, hasMigraine := result.Diseases.Get(Migraine)
	assert.True(t, hasFlu)
	assert.True(t, hasMigraine)
}

func TestNormalizeSymptoms_KeepsEmptyTokens(t *testing.T) {
	assert.Equal(t, []string{"fever", "", "chest pain"}, NormalizeSymptoms(" Fever,, Chest Pain "))
	assert.Equal(t, []string{""}, NormalizeSymptoms(""))
}

func TestScore_HeartRateTiers(t *testing.T) {
	cases := []struct {
		rate int
		want int
	}{
		{79, 0},
		{80, 15},
		{99, 15},
		{100, 35},
		{129, 35},
		{130, 80},
	}
	for _, tc := range cases {
		result := Score(Input{Symptoms: "cough", HeartRate: intp(tc.rate)})
		got, ok := result.Diseases.Get(Tachycardia)
		require.True(t, ok)
		assert.Equal(t, tc.want, got, "heart rate %d", tc.rate)
	}
}

func TestScore_ModerateFeverBoost(t *testing.T) {
	result := Score(Input{Temperature: floatp(102)})

	influenza, _ := result.Diseases.Get(Influenza)
	covid, _ := result.Diseases.Get(Covid19)
	assert.Equal(t, 45, influenza)
	assert.Equal(t, 30, covid)
	assert.Equal(t, 5, result.SeverityScore)
}

func TestScore_TemperatureBelowFeverThreshold(t *testing.T) {
	result := Score(Input{Temperature: floatp(100.4)})

	assert.Equal(t, Conditions{{CommonCold, 30}, {Allergies, 25}, {Stress, 20}}, result.Diseases)
}

func TestScore_CriticalCombinationClamps(t *testing.T) {
	result := Score(Input{
		Symptoms:   "severe headache, chest pain, eye pain",
		SystolicBP: intp(200),
	})

	crisis, _ := result.Diseases.Get(HypertensiveCrisis)
	heartAttack, _ := result.Diseases.Get(HeartAttack)
	assert.Equal(t, 100, crisis)
	assert.Equal(t, 100, heartAttack)
	assert.Equal(t, RiskCritical, result.RiskLevel)
}

func TestScore_CriticalCombinationWithoutChestPain(t *testing.T) {
	result := Score(Input{
		Symptoms:    "severe headache, eye pain, vomiting",
		DiastolicBP: intp(95),
	})

	assert.Equal(t, Conditions{
		{Hypertension, 75},
		{HypertensiveCrisis, 70},
		{Tachycardia, 0},
		{CardiovascularDisease, 0},
	}, result.Diseases)
	assert.True(t, result.IsEmergency)
	assert.Equal(t, RiskCritical, result.RiskLevel)
}

func TestScore_DuplicateCriticalSymptomsCountOnce(t *testing.T) {
	result := Score(Input{Symptoms: "vomiting, vomiting, vomiting", SystolicBP: intp(150)})

	crisis, _ := result.Diseases.Get(HypertensiveCrisis)
	assert.Zero(t, crisis)
}

func TestScore_ChestPainHeartRateOverride(t *testing.T) {
	result := Score(Input{Symptoms: "chest pain", HeartRate: intp(95)})

	assert.Equal(t, Condition{HeartAttack, 85}, result.Diseases[0])
	tachy, _ := result.Diseases.Get(Tachycardia)
	assert.Equal(t, 15, tachy)
	assert.True(t, result.IsEmergency)
	assert.Equal(t, RiskCritical, result.RiskLevel)
}

func TestScore_ZeroScoresKeepSeedOrder(t *testing.T) {
	result := Score(Input{HeartRate: intp(85)})

	assert.Equal(t, Conditions{
		{Tachycardia, 15},
		{Hypertension, 0},
		{HypertensiveCrisis, 0},
		{CardiovascularDisease, 0},
	}, result.Diseases)
	assert.Equal(t, RiskLow, result.RiskLevel)
}

func TestScore_Properties(t *testing.T) {
	symptoms := []string{"", "fever", "chest pain, cough", "severe headache, eye pain, vomiting, chest pain", "headache, temperature"}
	vitals := []*int{nil, intp(0), intp(85), intp(135), intp(185)}
	temps := []*float64{nil, floatp(99), floatp(101.5), floatp(105)}

	for _, sym := range symptoms {
		for _, hr := range vitals {
			for _, sys := range vitals {
				for _, temp := range temps {
					in := Input{Symptoms: sym, HeartRate: hr, SystolicBP: sys, DiastolicBP: hr, Temperature: temp}
					result := Score(in)

					require.NotEmpty(t, result.Diseases)
					for i, cond := range result.Diseases {
						assert.GreaterOrEqual(t, cond.Score, 0)
						assert.LessOrEqual(t, cond.Score, 100)
						if i > 0 {
							assert.GreaterOrEqual(t, result.Diseases[i-1].Score, cond.Score)
						}
					}
					assert.Equal(t, result, Score(in))
				}
			}
		}
	}
}

func TestClassifyRisk(t *testing.T) {
	cases := []struct {
		max       int
		emergency bool
		want      RiskLevel
	}{
		{70, true, RiskCritical},
		{69, true, RiskHigh},
		{74, false, RiskHigh},
		{75, false, RiskCritical},
		{60, false, RiskHigh},
		{50, true, RiskHigh},
		{49, true, RiskMedium},
		{55, false, RiskMedium},
		{30, false, RiskMedium},
		{29, false, RiskLow},
		{0, true, RiskLow},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, classifyRisk(tc.max, tc.emergency), "max=%d emergency=%v", tc.max, tc.emergency)
	}
}

func TestResultJSONKeepsRanking(t *testing.T) {
	result := Score(Input{Symptoms: "chest pain", SystolicBP: intp(190), DiastolicBP: intp(70)})

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(data), `{"diseases":{"Hypertensive Crisis":90,"Heart Attack":85,"Cardiovascular Disease":40,`)
	assert.Contains(t, string(data), `"risk_level":"Critical","is_emergency":true`)

	var decoded Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, result, decoded)
}

func TestConditionsUnmarshalRejectsArray(t *testing.T) {
	var c Conditions
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &c))
}
