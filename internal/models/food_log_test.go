package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoodLogValidate(t *testing.T) {
	log := &FoodLog{
		FoodName: "Chicken salad",
		Calories: intp(350),
		ProteinG: intp(30),
		FatsG:    intp(15),
		CarbsG:   intp(20),
	}
	assert.Empty(t, log.Validate())

	log.FoodName = "   "
	log.Calories = nil
	log.ProteinG = intp(-1)

	errs := log.Validate()
	assert.Contains(t, errs, "food_name can't be blank")
	assert.Contains(t, errs, "calories is required")
	assert.Contains(t, errs, "protein_g must be greater than or equal to 0")
}

func TestFoodLogMacros(t *testing.T) {
	log := &FoodLog{Calories: intp(350), ProteinG: intp(30)}

	assert.Equal(t, Macros{Calories: 350, ProteinG: 30, FatsG: 0, CarbsG: 0}, log.Macros())
}

func TestSumMacros(t *testing.T) {
	logs := []FoodLog{
		{Calories: intp(350), ProteinG: intp(30), FatsG: intp(15), CarbsG: intp(20)},
		{Calories: intp(600), ProteinG: intp(40), FatsG: intp(25), CarbsG: intp(55)},
		{Calories: intp(100)},
	}

	assert.Equal(t, Macros{Calories: 1050, ProteinG: 70, FatsG: 40, CarbsG: 75}, SumMacros(logs))
	assert.Equal(t, Macros{}, SumMacros(nil))
}
