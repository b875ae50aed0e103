package models

import (
	"strings"
	"time"
)

// FoodLog is a single consumption event. Macro fields are pointers so that
// "absent" is distinguishable from an explicit zero; validation requires all
// four to be present and non-negative.
type FoodLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID   uint   `gorm:"index;not null" json:"user_id"`
	FoodName string `json:"food_name"`

	Calories *int `json:"calories"`
	ProteinG *int `json:"protein_g"`
	FatsG    *int `json:"fats_g"`
	CarbsG   *int `json:"carbs_g"`

	ImageURL string `json:"image_url"`
}

// Macros is a day's (or entry's) worth of consumed totals.
type Macros struct {
	Calories int `json:"calories"`
	ProteinG int `json:"protein_g"`
	FatsG    int `json:"fats_g"`
	CarbsG   int `json:"carbs_g"`
}

// Validate returns field-level validation messages. An empty slice means the
// record can be persisted.
func (f *FoodLog) Validate() []string {
	var errs []string
	if strings.TrimSpace(f.FoodName) == "" {
		errs = append(errs, "food_name can't be blank")
	}
	macros := []struct {
		name  string
		value *int
	}{
		{"calories", f.Calories},
		{"protein_g", f.ProteinG},
		{"fats_g", f.FatsG},
		{"carbs_g", f.CarbsG},
	}
	for _, m := range macros {
		if m.value == nil {
			errs = append(errs, m.name+" is required")
		} else if *m.value < 0 {
			errs = append(errs, m.name+" must be greater than or equal to 0")
		}
	}
	return errs
}

// Macros returns the entry's totals with nil fields counted as zero.
func (f *FoodLog) Macros() Macros {
	return Macros{
		Calories: intOrZero(f.Calories),
		ProteinG: intOrZero(f.ProteinG),
		FatsG:    intOrZero(f.FatsG),
		CarbsG:   intOrZero(f.CarbsG),
	}
}

// SumMacros aggregates consumed totals across a set of logs.
func SumMacros(logs []FoodLog) Macros {
	var total Macros
	for i := range logs {
		m := logs[i].Macros()
		total.Calories += m.Calories
		total.ProteinG += m.ProteinG
		total.FatsG += m.FatsG
		total.CarbsG += m.CarbsG
	}
	return total
}
