package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"nutrilog/internal/nutrition"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }
func strp(v string) *string     { return &v }
func timep(v time.Time) *time.Time {
	return &v
}

func completeUser() *User {
	dob := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	return &User{
		ID:            1,
		Provider:      "google_oauth2",
		UID:           "uid-1",
		Email:         "user@example.com",
		HeightCm:      intp(180),
		WeightKg:      floatp(80),
		DateOfBirth:   timep(dob),
		Sex:           strp(nutrition.SexMale),
		ActivityLevel: nutrition.ActivityModeratelyActive,
		GoalType:      nutrition.GoalMaintain,
	}
}

func TestReadyForGoalCalculation(t *testing.T) {
	user := completeUser()
	assert.True(t, user.ReadyForGoalCalculation())

	user.Sex = nil
	assert.False(t, user.ReadyForGoalCalculation())

	user = completeUser()
	user.DateOfBirth = nil
	assert.False(t, user.ReadyForGoalCalculation())

	user = completeUser()
	user.WeightKg = nil
	assert.False(t, user.ReadyForGoalCalculation())

	user = completeUser()
	user.HeightCm = nil
	assert.False(t, user.ReadyForGoalCalculation())
}

func TestCalculateGoals(t *testing.T) {
	user := completeUser()
	now := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, user.CalculateGoals(now))
	assert.Equal(t, 2759, *user.DailyCaloriesGoal)
	assert.Equal(t, 144, *user.DailyProteinGoalG)
	assert.Equal(t, 64, *user.DailyFatsGoalG)
	assert.Equal(t, 402, *user.DailyCarbsGoalG)
}

func TestCalculateGoalsSkipsIncompleteProfile(t *testing.T) {
	user := completeUser()
	user.Sex = nil
	now := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.False(t, user.CalculateGoals(now))
	assert.Nil(t, user.DailyCaloriesGoal)
	assert.Nil(t, user.DailyProteinGoalG)
}

func TestNeedsRecalculation(t *testing.T) {
	user := completeUser()
	user.SurveyCompleted = true

	assert.True(t, user.NeedsRecalculation([]string{"weight_kg"}))
	assert.True(t, user.NeedsRecalculation([]string{"username", "goal_type"}))
	assert.False(t, user.NeedsRecalculation([]string{"username"}))
	assert.False(t, user.NeedsRecalculation(nil))

	user.SurveyCompleted = false
	assert.False(t, user.NeedsRecalculation([]string{"weight_kg"}))
}

func TestGoalsComparison(t *testing.T) {
	user := completeUser()
	user.DailyCaloriesGoal = intp(2500)
	now := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)

	comparison := user.GoalsComparison(now)
	assert.NotNil(t, comparison)
	assert.Equal(t, 2500, comparison["calories"]["current"])
	assert.Equal(t, 2759, comparison["calories"]["calculated"])
	assert.Equal(t, 259, comparison["calories"]["difference"])
	assert.Equal(t, 0, comparison["protein_g"]["current"])
	assert.Equal(t, 144, comparison["protein_g"]["calculated"])
}

func TestGoalsComparisonRequiresCompleteProfile(t *testing.T) {
	user := completeUser()
	user.DateOfBirth = nil
	now := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, user.GoalsComparison(now))
}

func TestRemainingMacros(t *testing.T) {
	user := completeUser()
	user.DailyCaloriesGoal = intp(2000)
	user.DailyProteinGoalG = intp(150)
	user.DailyFatsGoalG = intp(60)
	user.DailyCarbsGoalG = intp(250)

	remaining := user.RemainingMacros(Macros{Calories: 500, ProteinG: 40, FatsG: 20, CarbsG: 50})
	assert.Equal(t, Macros{Calories: 1500, ProteinG: 110, FatsG: 40, CarbsG: 200}, remaining)
}

func TestRemainingMacrosFloorsAtZero(t *testing.T) {
	user := completeUser()
	user.DailyCaloriesGoal = intp(2000)
	user.DailyProteinGoalG = intp(150)

	remaining := user.RemainingMacros(Macros{Calories: 2100, ProteinG: 180, FatsG: 10, CarbsG: 10})
	assert.Equal(t, 0, remaining.Calories)
	assert.Equal(t, 0, remaining.ProteinG)
	assert.Equal(t, 0, remaining.FatsG)
	assert.Equal(t, 0, remaining.CarbsG)
}

func TestCaloriesBalance(t *testing.T) {
	user := completeUser()
	user.DailyCaloriesGoal = intp(2000)

	assert.Equal(t, 1500, user.CaloriesBalance(Macros{Calories: 500}))
	assert.Equal(t, -100, user.CaloriesBalance(Macros{Calories: 2100}))

	user.DailyCaloriesGoal = nil
	assert.Equal(t, -500, user.CaloriesBalance(Macros{Calories: 500}))
}

func TestOverLimit(t *testing.T) {
	user := completeUser()
	user.DailyCaloriesGoal = intp(2000)

	assert.False(t, user.OverLimit(Macros{Calories: 1999}))
	assert.True(t, user.OverLimit(Macros{Calories: 2000}))
	assert.True(t, user.OverLimit(Macros{Calories: 2100}))
}

func TestUserValidate(t *testing.T) {
	user := completeUser()
	assert.Empty(t, user.Validate())

	user.Email = "  "
	user.HeightCm = intp(-1)
	user.Sex = strp("other")
	user.DailyProteinGoalG = intp(-5)

	errs := user.Validate()
	assert.Contains(t, errs, "email can't be blank")
	assert.Contains(t, errs, "height_cm must be greater than 0")
	assert.Contains(t, errs, "sex must be male or female")
	assert.Contains(t, errs, "daily_protein_goal_g must be greater than or equal to 0")
}

func TestUserBeforeSaveLowercases(t *testing.T) {
	user := completeUser()
	user.Email = "User@Example.COM"
	user.Sex = strp("Male")

	assert.NoError(t, user.BeforeSave(nil))
	assert.Equal(t, "user@example.com", user.Email)
	assert.Equal(t, "male", *user.Sex)
}
