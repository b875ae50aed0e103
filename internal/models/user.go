package models

import (
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"nutrilog/internal/nutrition"
)

// User is the profile aggregate: identity from the OAuth provider, survey
// biometrics, and the four daily macro targets. Targets are all nil until
// the survey first assigns them.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Provider string `gorm:"index:idx_users_provider_uid,unique" json:"provider"`
	UID      string `gorm:"index:idx_users_provider_uid,unique" json:"uid"`
	Email    string `gorm:"unique" json:"email"`
	Username string `json:"username"`

	HeightCm    *int       `json:"height_cm"`
	WeightKg    *float64   `json:"weight_kg"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Sex         *string    `json:"sex"`

	ActivityLevel string `gorm:"default:sedentary" json:"activity_level"`
	GoalType      string `gorm:"default:maintain" json:"goal_type"`

	DailyCaloriesGoal *int `json:"daily_calories_goal"`
	DailyProteinGoalG *int `json:"daily_protein_goal_g"`
	DailyFatsGoalG    *int `json:"daily_fats_goal_g"`
	DailyCarbsGoalG   *int `json:"daily_carbs_goal_g"`

	SurveyCompleted bool `gorm:"default:false" json:"survey_completed"`

	FoodLogs []FoodLog `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// GoalRelevantFields are the attributes whose change invalidates computed
// targets on an active profile.
var GoalRelevantFields = []string{
	"weight_kg", "height_cm", "date_of_birth", "sex", "activity_level", "goal_type",
}

// Normalize lowercases email and sex. It must run before validation or goal
// calculation so both see canonical values; BeforeSave applies it again on
// persistence for records saved outside the services.
func (u *User) Normalize() {
	u.Email = strings.ToLower(u.Email)
	if u.Sex != nil {
		lowered := strings.ToLower(*u.Sex)
		u.Sex = &lowered
	}
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Normalize()
	return nil
}

// Validate returns field-level validation messages. An empty slice means the
// record is valid.
func (u *User) Validate() []string {
	var errs []string
	if strings.TrimSpace(u.Email) == "" {
		errs = append(errs, "email can't be blank")
	}
	if u.Provider == "" {
		errs = append(errs, "provider can't be blank")
	}
	if u.UID == "" {
		errs = append(errs, "uid can't be blank")
	}
	if u.HeightCm != nil && *u.HeightCm <= 0 {
		errs = append(errs, "height_cm must be greater than 0")
	}
	if u.WeightKg != nil && *u.WeightKg <= 0 {
		errs = append(errs, "weight_kg must be greater than 0")
	}
	if u.Sex != nil && *u.Sex != nutrition.SexMale && *u.Sex != nutrition.SexFemale {
		errs = append(errs, "sex must be male or female")
	}
	goals := []struct {
		name  string
		value *int
	}{
		{"daily_calories_goal", u.DailyCaloriesGoal},
		{"daily_protein_goal_g", u.DailyProteinGoalG},
		{"daily_fats_goal_g", u.DailyFatsGoalG},
		{"daily_carbs_goal_g", u.DailyCarbsGoalG},
	}
	for _, goal := range goals {
		if goal.value != nil && *goal.value < 0 {
			errs = append(errs, goal.name+" must be greater than or equal to 0")
		}
	}
	return errs
}

// ReadyForGoalCalculation reports whether all biometrics gating automatic
// goal computation are present.
func (u *User) ReadyForGoalCalculation() bool {
	return u.WeightKg != nil && u.HeightCm != nil && u.DateOfBirth != nil && u.Sex != nil
}

// GoalInput snapshots the profile into a calculation input. ok is false when
// the profile is not ready for goal calculation.
func (u *User) GoalInput(now time.Time) (nutrition.Input, bool) {
	if !u.ReadyForGoalCalculation() {
		return nutrition.Input{}, false
	}
	return nutrition.Input{
		Sex:           *u.Sex,
		HeightCm:      float64(*u.HeightCm),
		WeightKg:      *u.WeightKg,
		AgeYears:      nutrition.AgeInYears(*u.DateOfBirth, now),
		ActivityLevel: u.ActivityLevel,
		GoalType:      u.GoalType,
	}, true
}

// CalculateGoals recomputes and assigns the four daily targets. It reports
// whether targets were assigned; when the profile is not ready the targets
// are left untouched and false is returned. Out-of-band computed values are
// logged but still assigned.
func (u *User) CalculateGoals(now time.Time) bool {
	input, ok := u.GoalInput(now)
	if !ok {
		return false
	}

	targets, ok := nutrition.ComputeTargets(input)
	if !ok {
		return false
	}

	for _, warning := range nutrition.ValidateTargets(targets) {
		log.Printf("user %d: %s", u.ID, warning)
	}

	u.DailyCaloriesGoal = &targets.Calories
	u.DailyProteinGoalG = &targets.ProteinG
	u.DailyFatsGoalG = &targets.FatsG
	u.DailyCarbsGoalG = &targets.CarbsG
	return true
}

// NeedsRecalculation is true when the survey is complete and any changed
// field feeds the goal formula. Manual-override intent is not visible here;
// every qualifying change recomputes.
func (u *User) NeedsRecalculation(changedFields []string) bool {
	if !u.SurveyCompleted {
		return false
	}
	for _, changed := range changedFields {
		for _, relevant := range GoalRelevantFields {
			if changed == relevant {
				return true
			}
		}
	}
	return false
}

// GoalsComparison pairs the stored targets with a fresh calculation so users
// can see how far their current goals have drifted. Nil when the profile is
// not ready for calculation.
func (u *User) GoalsComparison(now time.Time) map[string]map[string]int {
	input, ok := u.GoalInput(now)
	if !ok {
		return nil
	}
	calculated, ok := nutrition.ComputeTargets(input)
	if !ok {
		return nil
	}

	entry := func(current *int, calc int) map[string]int {
		cur := intOrZero(current)
		return map[string]int{"current": cur, "calculated": calc, "difference": calc - cur}
	}

	return map[string]map[string]int{
		"calories":  entry(u.DailyCaloriesGoal, calculated.Calories),
		"protein_g": entry(u.DailyProteinGoalG, calculated.ProteinG),
		"fats_g":    entry(u.DailyFatsGoalG, calculated.FatsG),
		"carbs_g":   entry(u.DailyCarbsGoalG, calculated.CarbsG),
	}
}

// RemainingMacros subtracts consumed totals from the daily targets, floored
// at zero. Unset targets count as zero.
func (u *User) RemainingMacros(consumed Macros) Macros {
	return Macros{
		Calories: floorZero(intOrZero(u.DailyCaloriesGoal) - consumed.Calories),
		ProteinG: floorZero(intOrZero(u.DailyProteinGoalG) - consumed.ProteinG),
		FatsG:    floorZero(intOrZero(u.DailyFatsGoalG) - consumed.FatsG),
		CarbsG:   floorZero(intOrZero(u.DailyCarbsGoalG) - consumed.CarbsG),
	}
}

// CaloriesBalance is the signed difference between the calorie target and
// today's consumption; negative means the user is over.
func (u *User) CaloriesBalance(consumed Macros) int {
	return intOrZero(u.DailyCaloriesGoal) - consumed.Calories
}

// OverLimit is true once consumption reaches or exceeds the calorie target.
func (u *User) OverLimit(consumed Macros) bool {
	return u.CaloriesBalance(consumed) <= 0
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func floorZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
