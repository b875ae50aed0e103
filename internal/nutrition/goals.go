package nutrition

import (
	"fmt"
	"math"
	"time"
)

// Activity levels and goal types are stored as strings on the user record.
// Unknown values fall through to the documented defaults rather than failing.
const (
	ActivitySedentary        = "sedentary"
	ActivityLightlyActive    = "lightly_active"
	ActivityModeratelyActive = "moderately_active"
	ActivityVeryActive       = "very_active"
	ActivityExtraActive      = "extra_active"

	GoalLose     = "lose"
	GoalMaintain = "maintain"
	GoalGain     = "gain"

	SexMale   = "male"
	SexFemale = "female"
)

const (
	minAge = 18
	maxAge = 100

	minCalories = 1200
	maxCalories = 4000
)

// Input is the snapshot of profile fields the calculation depends on.
// Sex, HeightCm and WeightKg must all be set for ComputeTargets to proceed.
type Input struct {
	Sex           string
	HeightCm      float64
	WeightKg      float64
	AgeYears      int
	ActivityLevel string
	GoalType      string
}

// Targets holds the four computed daily goals, all non-negative integers.
type Targets struct {
	Calories int
	ProteinG int
	FatsG    int
	CarbsG   int
}

// Breakdown exposes the intermediate values behind a calorie target so the
// dashboard can show users how their number was derived.
type Breakdown struct {
	BMR           int `json:"bmr"`
	TDEE          int `json:"tdee"`
	Adjustment    int `json:"adjustment"`
	FinalCalories int `json:"final_calories"`
}

// AgeInYears returns the age at now with an exact had-birthday check,
// clamped to [18, 100]. A zero date of birth yields 0.
func AgeInYears(dateOfBirth, now time.Time) int {
	if dateOfBirth.IsZero() {
		return 0
	}

	age := now.Year() - dateOfBirth.Year()
	hadBirthday := now.Month() > dateOfBirth.Month() ||
		(now.Month() == dateOfBirth.Month() && now.Day() >= dateOfBirth.Day())
	if !hadBirthday {
		age--
	}

	if age < minAge {
		return minAge
	}
	if age > maxAge {
		return maxAge
	}
	return age
}

// ActivityMultiplier maps an activity level to its TDEE multiplier.
// Unknown or empty levels use the sedentary multiplier.
func ActivityMultiplier(level string) float64 {
	switch level {
	case ActivitySedentary:
		return 1.2
	case ActivityLightlyActive:
		return 1.375
	case ActivityModeratelyActive:
		return 1.55
	case ActivityVeryActive:
		return 1.725
	case ActivityExtraActive:
		return 1.9
	default:
		return 1.2
	}
}

// GoalAdjustment is the flat calorie delta applied on top of TDEE.
func GoalAdjustment(goalType string) int {
	switch goalType {
	case GoalLose:
		return -500
	case GoalGain:
		return 300
	default:
		return 0
	}
}

func proteinMultiplier(goalType string) float64 {
	switch goalType {
	case GoalLose:
		return 2.0
	case GoalMaintain:
		return 1.8
	case GoalGain:
		return 2.2
	default:
		return 1.8
	}
}

// BasalMetabolicRate computes BMR via Mifflin-St Jeor.
func BasalMetabolicRate(in Input) float64 {
	bmr := 10*in.WeightKg + 6.25*in.HeightCm - 5*float64(in.AgeYears)
	if in.Sex == SexMale {
		bmr += 5
	} else {
		bmr -= 161
	}
	return bmr
}

// TotalDailyEnergyExpenditure scales BMR by the activity multiplier.
func TotalDailyEnergyExpenditure(in Input) float64 {
	return BasalMetabolicRate(in) * ActivityMultiplier(in.ActivityLevel)
}

func dailyCalories(in Input) int {
	calories := int(math.Round(TotalDailyEnergyExpenditure(in))) + GoalAdjustment(in.GoalType)
	if calories < minCalories {
		return minCalories
	}
	if calories > maxCalories {
		return maxCalories
	}
	return calories
}

// ComputeTargets turns a profile snapshot into daily macro targets. It is a
// pure function: the same input always yields the same output. ok is false
// when sex, height or weight is missing, in which case the computation is
// skipped and the zero Targets must not be used.
func ComputeTargets(in Input) (Targets, bool) {
	if in.Sex == "" || in.HeightCm <= 0 || in.WeightKg <= 0 {
		return Targets{}, false
	}

	calories := dailyCalories(in)
	protein := int(math.Round(in.WeightKg * proteinMultiplier(in.GoalType)))
	fats := int(math.Round(in.WeightKg * 0.8))

	remaining := calories - protein*4 - fats*9
	carbs := int(math.Round(float64(remaining) / 4.0))
	if carbs < 0 {
		carbs = 0
	}

	return Targets{
		Calories: calories,
		ProteinG: protein,
		FatsG:    fats,
		CarbsG:   carbs,
	}, true
}

// ComputeBreakdown returns the intermediate calculation values for the same
// input ComputeTargets consumes.
func ComputeBreakdown(in Input) Breakdown {
	return Breakdown{
		BMR:           int(math.Round(BasalMetabolicRate(in))),
		TDEE:          int(math.Round(TotalDailyEnergyExpenditure(in))),
		Adjustment:    GoalAdjustment(in.GoalType),
		FinalCalories: dailyCalories(in),
	}
}

// ValidateTargets checks computed goals against sanity bands and returns a
// warning per out-of-band value. Warnings are advisory: callers log them and
// persist the targets anyway.
func ValidateTargets(t Targets) []string {
	var warnings []string

	check := func(name string, value, low, high int) {
		if value < low || value > high {
			warnings = append(warnings,
				fmt.Sprintf("%s target %d outside expected range [%d, %d]", name, value, low, high))
		}
	}

	check("calories", t.Calories, minCalories, maxCalories)
	check("protein", t.ProteinG, 50, 400)
	check("fat", t.FatsG, 20, 200)
	check("carbs", t.CarbsG, 50, 600)

	return warnings
}
