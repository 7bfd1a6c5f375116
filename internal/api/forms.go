package api

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/Skufu/DocDiag/internal/diagnosis"
)

// assessmentForm is the urlencoded/multipart shape of an assessment.
type assessmentForm struct {
	Symptoms    string `form:"symptoms"`
	HeartRate   string `form:"heart_rate"`
	PulseRate   string `form:"pulse_rate"`
	SystolicBP  string `form:"systolic_bp"`
	DiastolicBP string `form:"diastolic_bp"`
	Temperature string `form:"temperature"`
}

// assessmentJSON accepts vitals as JSON numbers or strings.
type assessmentJSON struct {
	Symptoms    string `json:"symptoms"`
	HeartRate   any    `json:"heart_rate"`
	PulseRate   any    `json:"pulse_rate"`
	SystolicBP  any    `json:"systolic_bp"`
	DiastolicBP any    `json:"diastolic_bp"`
	Temperature any    `json:"temperature"`
}

// bindAssessment reads an engine input from the request. Vitals that are
// missing, do not parse or are not finite are left nil; only a malformed body is an error.
func bindAssessment(c *gin.Context) (diagnosis.Input, error) {
	var form assessmentForm
	if c.ContentType() == binding.MIMEJSON {
		var payload assessmentJSON
		if err := c.ShouldBindJSON(&payload); err != nil {
			return diagnosis.Input{}, err
		}
		form = assessmentForm{
			Symptoms:    payload.Symptoms,
			HeartRate:   rawValue(payload.HeartRate),
			PulseRate:   rawValue(payload.PulseRate),
			SystolicBP:  rawValue(payload.SystolicBP),
			DiastolicBP: rawValue(payload.DiastolicBP),
			Temperature: rawValue(payload.Temperature),
		}
	} else if err := c.ShouldBind(&form); err != nil {
		return diagnosis.Input{}, err
	}

	return diagnosis.Input{
		Symptoms:    form.Symptoms,
		HeartRate:   optionalInt(form.HeartRate),
		PulseRate:   optionalInt(form.PulseRate),
		SystolicBP:  optionalInt(form.SystolicBP),
		DiastolicBP: optionalInt(form.DiastolicBP),
		Temperature: optionalFloat(form.Temperature),
	}, nil
}

func rawValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func optionalInt(raw string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &v
}

func optionalFloat(raw string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
