// Package diagnosis scores a reported symptom list and optional vital signs
// into ranked candidate conditions, a risk level and an emergency flag.
//
// Scoring is deterministic and has no state between calls. Vitals are
// optional; a zero reading counts as not measured.
package diagnosis

import "strings"

// Input is one assessment request. Nil vitals were not measured.
type Input struct {
	Symptoms    string   `json:"symptoms"`
	HeartRate   *int     `json:"heart_rate,omitempty"`
	PulseRate   *int     `json:"pulse_rate,omitempty"`
	SystolicBP  *int     `json:"systolic_bp,omitempty"`
	DiastolicBP *int     `json:"diastolic_bp,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"` // Fahrenheit
}

// Result is the outcome of Score.
type Result struct {
	Diseases      Conditions `json:"diseases"`
	RiskLevel     RiskLevel  `json:"risk_level"`
	IsEmergency   bool       `json:"is_emergency"`
	SeverityScore int        `json:"severity_score"`
}

// Score runs the rule pipeline over in. It accepts any input, including an
// empty symptom string and no vitals. PulseRate is carried but never scored.
func Score(in Input) Result {
	s := &scoring{
		symptoms: NormalizeSymptoms(in.Symptoms),
		table:    newScoreTable(),
	}
	s.heartRate, s.hasHeartRate = measuredInt(in.HeartRate)
	s.systolic, s.hasSystolic = measuredInt(in.SystolicBP)
	s.diastolic, s.hasDiastolic = measuredInt(in.DiastolicBP)
	s.temperature, s.hasTemperature = measuredFloat(in.Temperature)

	for _, apply := range pipeline {
		apply(s)
	}

	return Result{
		Diseases:      s.result,
		RiskLevel:     s.risk,
		IsEmergency:   len(s.overrides) > 0,
		SeverityScore: s.severity,
	}
}

// NormalizeSymptoms splits a comma separated list, trimming and lower-casing
// every token. Empty tokens are kept.
func NormalizeSymptoms(text string) []string {
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.ToLower(strings.TrimSpace(p)))
	}
	return out
}

type scoring struct {
	symptoms []string

	heartRate, systolic, diastolic          int
	hasHeartRate, hasSystolic, hasDiastolic bool
	temperature                             float64
	hasTemperature                          bool

	table     *scoreTable
	overrides []Override
	severity  int
	crisis    bool // set by the BP crisis branch, never read back

	result Conditions
	risk   RiskLevel
}

type step func(s *scoring)

// pipeline order is significant.
var pipeline = []step{
	applySymptomRules,
	seedVitalConditions,
	scoreHeartRate,
	scoreBloodPressure,
	scoreTemperature,
	scoreCriticalCombination,
	applyFallback,
	applyOverrides,
	clampScores,
	rankAndClassify,
}

func applySymptomRules(s *scoring) {
	if s.hasSymptom(feverRule.Triggers...) || (s.hasTemperature && s.temperature > feverThreshold) {
		s.addAll(feverRule.Scores)
	}
	for _, rule := range symptomRules {
		if s.hasSymptom(rule.Triggers...) {
			s.addAll(rule.Scores)
		}
	}
}

func seedVitalConditions(s *scoring) {
	for _, name := range vitalConditions {
		s.table.seed(name)
	}
}

func scoreHeartRate(s *scoring) {
	if !s.hasHeartRate {
		return
	}
	switch {
	case s.heartRate >= 130:
		s.table.add(Tachycardia, 60)
		s.severity += 30
	case s.heartRate >= 100:
		s.table.add(Tachycardia, 35)
		s.severity += 15
	case s.heartRate >= 80:
		s.table.add(Tachycardia, 15)
	}
}

func scoreBloodPressure(s *scoring) {
	if !s.hasSystolic && !s.hasDiastolic {
		return
	}
	switch {
	case s.bpCrisis():
		s.table.add(HypertensiveCrisis, 85)
		s.crisis = true
		s.severity += 50
	case s.bpStage2():
		s.table.add(Hypertension, 60)
		s.severity += 30
	}
	if s.hasSystolic && s.systolic >= 140 {
		s.table.add(CardiovascularDisease, 40)
	}
	if s.hasSymptom(chestPain) && s.bpStage2() {
		s.table.add(HeartAttack, 50)
		s.severity += 25
	}
}

func scoreTemperature(s *scoring) {
	if !s.hasTemperature {
		return
	}
	switch {
	case s.temperature >= 103:
		s.addIfPresent(Influenza, 30)
		s.addIfPresent(Covid19, 25)
		s.severity += 15
	case s.temperature >= 101:
		s.addIfPresent(Influenza, 15)
		s.addIfPresent(Covid19, 10)
		s.severity += 5
	}
}

// scoreCriticalCombination boosts the crisis path when three or more critical
// symptoms coincide with high blood pressure.
func scoreCriticalCombination(s *scoring) {
	count := 0
	for _, sym := range criticalSymptoms {
		if s.hasSymptom(sym) {
			count++
		}
	}
	if count >= 3 && s.bpStage2() {
		s.table.add(HypertensiveCrisis, 70)
		s.addIfPresent(HeartAttack, 40)
		s.severity += 40
	}
}

// applyFallback replaces an empty or all-zero table with the defaults.
func applyFallback(s *scoring) {
	if !s.table.empty() && s.table.sum() != 0 {
		return
	}
	s.table.reset()
	s.addAll(fallbackScores)
}

func applyOverrides(s *scoring) {
	if s.bpCrisis() {
		s.overrides = append(s.overrides, Override{HypertensiveCrisis, 90})
	} else if s.bpStage2() {
		s.overrides = append(s.overrides, Override{Hypertension, 75})
	}
	if s.hasHeartRate && s.heartRate >= 130 {
		s.overrides = append(s.overrides, Override{Tachycardia, 80})
	}
	if s.hasSymptom(chestPain) &&
		((s.hasSystolic && s.systolic >= 130) ||
			(s.hasDiastolic && s.diastolic >= 80) ||
			(s.hasHeartRate && s.heartRate >= 90)) {
		s.overrides = append(s.overrides, Override{HeartAttack, 85})
	}

	for _, o := range s.overrides {
		s.table.raiseTo(o.Condition, o.MinScore)
	}
}

func clampScores(s *scoring) {
	s.table.clampMax(maxScore)
}

func rankAndClassify(s *scoring) {
	s.result = s.table.sorted()
	s.risk = classifyRisk(s.result.Max(), len(s.overrides) > 0)
}

func (s *scoring) bpCrisis() bool {
	return (s.hasSystolic && s.systolic >= 180) || (s.hasDiastolic && s.diastolic >= 120)
}

func (s *scoring) bpStage2() bool {
	return (s.hasSystolic && s.systolic >= 140) || (s.hasDiastolic && s.diastolic >= 90)
}

func (s *scoring) hasSymptom(names ...string) bool {
	for _, sym := range s.symptoms {
		for _, name := range names {
			if sym == name {
				return true
			}
		}
	}
	return false
}

func (s *scoring) addAll(scores []Condition) {
	for _, c := range scores {
		s.table.add(c.Name, c.Score)
	}
}

func (s *scoring) addIfPresent(name string, delta int) {
	if s.table.has(name) {
		s.table.add(name, delta)
	}
}

func measuredInt(v *int) (int, bool) {
	if v == nil || *v == 0 {
		return 0, false
	}
	return *v, true
}

func measuredFloat(v *float64) (float64, bool) {
	if v == nil || *v == 0 {
		return 0, false
	}
	return *v, true
}
