package app

import (
	"html"
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"fitrooms/internal/domain"
)

// Field limits.
const (
	maxRoomNameLen     = 100
	maxMealLen         = 300
	maxNoteLen         = 200
	maxPlanTextLen     = 1000
	maxPlanTargetsLen  = 500
	maxUserNameLen     = 255
	maxWorkoutMinutes  = 1440
	maxSleepHours      = 24
	maxBodyMeasurement = 1000
	maxSanitizePasses  = 4
)

// textPolicy strips all markup from user supplied text.
var textPolicy = bluemonday.StrictPolicy()

// sanitizeText removes markup from s and trims surrounding space. Entities
// are decoded before sanitizing so encoded markup is stripped too, and the
// pass repeats while decoding still reveals markup.
func sanitizeText(s string) string {
	for range maxSanitizePasses {
		clean := html.UnescapeString(textPolicy.Sanitize(html.UnescapeString(s)))
		if clean == s {
			break
		}
		s = clean
	}
	return strings.TrimSpace(s)
}

// optionalText sanitizes p and enforces maxLen. Empty text becomes nil.
func optionalText(field string, p *string, maxLen int) (*string, error) {
	if p == nil {
		return nil, nil
	}
	s := sanitizeText(*p)
	if s == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(s) > maxLen {
		return nil, domain.Invalid(field, "must be at most %d characters", maxLen)
	}
	return &s, nil
}

func requiredText(field, s string, maxLen int) (string, error) {
	s = sanitizeText(s)
	if s == "" {
		return "", domain.Invalid(field, "is required")
	}
	if utf8.RuneCountInString(s) > maxLen {
		return "", domain.Invalid(field, "must be at most %d characters", maxLen)
	}
	return s, nil
}

func intInRange(field string, v, lo, hi int) error {
	if v < lo || v > hi {
		return domain.Invalid(field, "must be between %d and %d", lo, hi)
	}
	return nil
}

// positiveMeasurement checks a body measurement lies in (0, 1000) once
// rounded to the two decimals it is stored with.
func positiveMeasurement(field string, v float64) error {
	r := math.Round(v*100) / 100
	if r <= 0 || r >= maxBodyMeasurement {
		return domain.Invalid(field, "must be greater than 0 and less than %d", maxBodyMeasurement)
	}
	return nil
}

func sleepInRange(field string, v float64) error {
	if v < 0 || v > maxSleepHours {
		return domain.Invalid(field, "must be between 0 and %d", maxSleepHours)
	}
	return nil
}

// LogInput is the submitted content of a daily log.
type LogInput struct {
	RoomID *string `json:"roomId"`

	Breakfast     *string `json:"breakfast"`
	Lunch         *string `json:"lunch"`
	EveningSnacks *string `json:"eveningSnacks"`
	Dinner        *string `json:"dinner"`

	WorkoutDone            bool    `json:"workoutDone"`
	WorkoutType            *string `json:"workoutType"`
	WorkoutDurationMinutes *int    `json:"workoutDurationMinutes"`
	WorkoutIntensity       *int    `json:"workoutIntensity"`

	SleepHours  *float64 `json:"sleepHours"`
	EnergyLevel *int     `json:"energyLevel"`
	Weight      *float64 `json:"weight"`
	WeightUnit  string   `json:"weightUnit"`

	Note *string `json:"note"`
}

// validateLog checks in and returns the log content it describes. Identity,
// date and room are left for the caller.
func validateLog(in LogInput) (domain.DailyLog, error) {
	var l domain.DailyLog
	var err error

	if in.SleepHours == nil {
		return l, domain.Invalid("sleepHours", "is required")
	}
	if err := sleepInRange("sleepHours", *in.SleepHours); err != nil {
		return l, err
	}
	l.SleepHours = *in.SleepHours

	if in.EnergyLevel == nil {
		return l, domain.Invalid("energyLevel", "is required")
	}
	if err := intInRange("energyLevel", *in.EnergyLevel, 1, 5); err != nil {
		return l, err
	}
	l.EnergyLevel = *in.EnergyLevel

	meals := []struct {
		field string
		in    *string
		out   **string
	}{
		{"breakfast", in.Breakfast, &l.Breakfast},
		{"lunch", in.Lunch, &l.Lunch},
		{"eveningSnacks", in.EveningSnacks, &l.EveningSnacks},
		{"dinner", in.Dinner, &l.Dinner},
	}
	anyMeal := false
	for _, m := range meals {
		if *m.out, err = optionalText(m.field, m.in, maxMealLen); err != nil {
			return l, err
		}
		anyMeal = anyMeal || *m.out != nil
	}
	if !anyMeal {
		return l, domain.Invalid("meals", "at least one meal is required")
	}

	l.WorkoutDone = in.WorkoutDone
	if in.WorkoutDone {
		if in.WorkoutType != nil && strings.TrimSpace(*in.WorkoutType) != "" {
			wt, err := domain.ParseWorkoutType(*in.WorkoutType)
			if err != nil {
				return l, err
			}
			l.WorkoutType = &wt
		}
		if in.WorkoutDurationMinutes != nil {
			if err := intInRange("workoutDurationMinutes", *in.WorkoutDurationMinutes, 0, maxWorkoutMinutes); err != nil {
				return l, err
			}
			l.WorkoutDurationMinutes = ptr(*in.WorkoutDurationMinutes)
		}
		if in.WorkoutIntensity != nil {
			if err := intInRange("workoutIntensity", *in.WorkoutIntensity, 1, 5); err != nil {
				return l, err
			}
			l.WorkoutIntensity = ptr(*in.WorkoutIntensity)
		}
	}

	if in.Weight != nil {
		kg, err := domain.ToKilograms(*in.Weight, in.WeightUnit)
		if err != nil {
			return l, err
		}
		if err := positiveMeasurement("weight", kg); err != nil {
			return l, err
		}
		l.WeightKg = &kg
	}

	if l.Note, err = optionalText("note", in.Note, maxNoteLen); err != nil {
		return l, err
	}
	return l, nil
}

// RoomInput is the content of a new room.
type RoomInput struct {
	Name         string `json:"name"`
	DurationDays int    `json:"durationDays"`
	DeadlineTime string `json:"deadlineTime"`
}

func validateRoom(in RoomInput) (RoomInput, error) {
	name, err := requiredText("name", in.Name, maxRoomNameLen)
	if err != nil {
		return in, err
	}
	if !slices.Contains(domain.AllowedDurations, in.DurationDays) {
		return in, domain.Invalid("durationDays", "must be one of %v", domain.AllowedDurations)
	}
	deadline, err := normalizeDeadline(in.DeadlineTime)
	if err != nil {
		return in, err
	}
	return RoomInput{Name: name, DurationDays: in.DurationDays, DeadlineTime: deadline}, nil
}

// normalizeDeadline accepts "HH:MM" or "HH:MM:SS" and returns "HH:MM:SS".
func normalizeDeadline(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.DefaultDeadlineTime, nil
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", domain.Invalid("deadlineTime", "must be HH:MM or HH:MM:SS")
}

// PlanInput is the editable content of a room plan.
type PlanInput struct {
	Expectations          *string `json:"expectations"`
	Strategy              *string `json:"strategy"`
	Targets               *string `json:"targets"`
	MinWorkoutDaysPerWeek *int    `json:"minWorkoutDaysPerWeek"`
	MinLoggingDaysPerWeek *int    `json:"minLoggingDaysPerWeek"`
}

func validatePlan(in PlanInput) (domain.Plan, error) {
	p := domain.Plan{MinWorkoutDaysPerWeek: 0, MinLoggingDaysPerWeek: 1}
	var err error
	if p.Expectations, err = optionalText("expectations", in.Expectations, maxPlanTextLen); err != nil {
		return p, err
	}
	if p.Strategy, err = optionalText("strategy", in.Strategy, maxPlanTextLen); err != nil {
		return p, err
	}
	if p.Targets, err = optionalText("targets", in.Targets, maxPlanTargetsLen); err != nil {
		return p, err
	}
	if in.MinWorkoutDaysPerWeek != nil {
		if err := intInRange("minWorkoutDaysPerWeek", *in.MinWorkoutDaysPerWeek, 0, 7); err != nil {
			return p, err
		}
		p.MinWorkoutDaysPerWeek = *in.MinWorkoutDaysPerWeek
	}
	if in.MinLoggingDaysPerWeek != nil {
		if err := intInRange("minLoggingDaysPerWeek", *in.MinLoggingDaysPerWeek, 1, 7); err != nil {
			return p, err
		}
		p.MinLoggingDaysPerWeek = *in.MinLoggingDaysPerWeek
	}
	return p, nil
}

// OnboardingInput completes a user's profile. Every field is required.
type OnboardingInput struct {
	Name             string   `json:"name"`
	HeightCm         *float64 `json:"heightCm"`
	Weight           *float64 `json:"weight"`
	WeightUnit       string   `json:"weightUnit"`
	ActivityLevel    string   `json:"activityLevel"`
	SleepHours       *float64 `json:"sleepHours"`
	WorkoutFrequency string   `json:"workoutFrequency"`
	FitnessGoal      string   `json:"fitnessGoal"`
}

func validateOnboarding(in OnboardingInput) (string, domain.Profile, error) {
	var p domain.Profile
	name, err := requiredText("name", in.Name, maxUserNameLen)
	if err != nil {
		return "", p, err
	}

	if in.HeightCm == nil {
		return "", p, domain.Invalid("heightCm", "is required")
	}
	if err := positiveMeasurement("heightCm", *in.HeightCm); err != nil {
		return "", p, err
	}
	p.HeightCm = ptr(*in.HeightCm)

	if in.Weight == nil {
		return "", p, domain.Invalid("weight", "is required")
	}
	kg, err := domain.ToKilograms(*in.Weight, in.WeightUnit)
	if err != nil {
		return "", p, err
	}
	if err := positiveMeasurement("weight", kg); err != nil {
		return "", p, err
	}
	p.StartingWeightKg = &kg

	if in.SleepHours == nil {
		return "", p, domain.Invalid("sleepHours", "is required")
	}
	if err := sleepInRange("sleepHours", *in.SleepHours); err != nil {
		return "", p, err
	}
	p.TypicalSleepHours = ptr(*in.SleepHours)

	level, err := domain.ParseActivityLevel(in.ActivityLevel)
	if err != nil {
		return "", p, err
	}
	freq, err := domain.ParseWorkoutFrequency(in.WorkoutFrequency)
	if err != nil {
		return "", p, err
	}
	goal, err := domain.ParseFitnessGoal(in.FitnessGoal)
	if err != nil {
		return "", p, err
	}
	p.ActivityLevel, p.WorkoutFrequency, p.FitnessGoal = &level, &freq, &goal
	return name, p, nil
}

// SettingsInput updates a user's profile. Only the name is required; nil or
// empty fields clear the stored value. The starting weight is not editable.
type SettingsInput struct {
	Name              string   `json:"name"`
	HeightCm          *float64 `json:"heightCm"`
	ActivityLevel     *string  `json:"activityLevel"`
	TypicalSleepHours *float64 `json:"typicalSleepHours"`
	WorkoutFrequency  *string  `json:"workoutFrequency"`
	FitnessGoal       *string  `json:"fitnessGoal"`
}

func validateSettings(in SettingsInput, current domain.Profile) (string, domain.Profile, error) {
	p := domain.Profile{StartingWeightKg: current.StartingWeightKg}
	name, err := requiredText("name", in.Name, maxUserNameLen)
	if err != nil {
		return "", p, err
	}
	if in.HeightCm != nil {
		if err := positiveMeasurement("heightCm", *in.HeightCm); err != nil {
			return "", p, err
		}
		p.HeightCm = ptr(*in.HeightCm)
	}
	if in.TypicalSleepHours != nil {
		if err := sleepInRange("typicalSleepHours", *in.TypicalSleepHours); err != nil {
			return "", p, err
		}
		p.TypicalSleepHours = ptr(*in.TypicalSleepHours)
	}
	if p.ActivityLevel, err = optionalEnum(in.ActivityLevel, domain.ParseActivityLevel); err != nil {
		return "", p, err
	}
	if p.WorkoutFrequency, err = optionalEnum(in.WorkoutFrequency, domain.ParseWorkoutFrequency); err != nil {
		return "", p, err
	}
	if p.FitnessGoal, err = optionalEnum(in.FitnessGoal, domain.ParseFitnessGoal); err != nil {
		return "", p, err
	}
	return name, p, nil
}

func optionalEnum[T ~string](s *string, parse func(string) (T, error)) (*T, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	v, err := parse(*s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func ptr[T any](v T) *T { return &v }
