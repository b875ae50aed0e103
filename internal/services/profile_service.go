package services

import (
	"time"

	"nutrilog/internal/models"
	"nutrilog/internal/repository"
)

// SurveyAttributes carries the onboarding survey fields after measurement
// normalization. Nil means the caller did not supply the field.
type SurveyAttributes struct {
	Username          *string
	Sex               *string
	DateOfBirth       *time.Time
	HeightCm          *int
	WeightKg          *float64
	ActivityLevel     *string
	GoalType          *string
	DailyCaloriesGoal *int
	DailyProteinGoalG *int
	DailyFatsGoalG    *int
	DailyCarbsGoalG   *int
}

// ManualGoalsPresent reports whether any of the four goal fields was
// supplied, which switches the survey into manual-override mode.
func (a SurveyAttributes) ManualGoalsPresent() bool {
	return a.DailyCaloriesGoal != nil || a.DailyProteinGoalG != nil ||
		a.DailyFatsGoalG != nil || a.DailyCarbsGoalG != nil
}

// ProfileService owns the survey-completion workflow and the explicit
// post-update recalculation step.
type ProfileService struct {
	userRepo repository.UserRepository
	now      func() time.Time
}

func NewProfileService(userRepo repository.UserRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo, now: time.Now}
}

// CompleteSurvey merges the survey attributes into the profile, marks the
// survey complete and assigns daily targets: manual goals are persisted
// as-is, otherwise targets are computed automatically. A profile missing
// readiness fields is saved without touching targets. The returned messages
// are recoverable validation failures; err is an infrastructure failure.
func (ps *ProfileService) CompleteSurvey(user *models.User, attrs SurveyAttributes) ([]string, error) {
	applyAttributes(user, attrs)
	user.Normalize()
	user.SurveyCompleted = true

	if !attrs.ManualGoalsPresent() {
		user.CalculateGoals(ps.now())
	}

	if errs := user.Validate(); len(errs) > 0 {
		return errs, nil
	}
	if err := ps.userRepo.Save(user); err != nil {
		return nil, err
	}
	return nil, nil
}

// UpdateProfile merges the attributes and saves, then runs the explicit
// post-update step: when the profile is active and a goal-relevant field
// changed, targets are recomputed and persisted.
func (ps *ProfileService) UpdateProfile(user *models.User, attrs SurveyAttributes) ([]string, error) {
	changed := applyAttributes(user, attrs)
	user.Normalize()

	if errs := user.Validate(); len(errs) > 0 {
		return errs, nil
	}
	if err := ps.userRepo.Save(user); err != nil {
		return nil, err
	}

	if user.NeedsRecalculation(changed) && user.CalculateGoals(ps.now()) {
		if err := ps.userRepo.Save(user); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// applyAttributes merges non-nil attributes into the profile and returns the
// names of the fields that were assigned.
func applyAttributes(user *models.User, attrs SurveyAttributes) []string {
	var changed []string

	if attrs.Username != nil {
		user.Username = *attrs.Username
		changed = append(changed, "username")
	}
	if attrs.Sex != nil {
		user.Sex = attrs.Sex
		changed = append(changed, "sex")
	}
	if attrs.DateOfBirth != nil {
		user.DateOfBirth = attrs.DateOfBirth
		changed = append(changed, "date_of_birth")
	}
	if attrs.HeightCm != nil {
		user.HeightCm = attrs.HeightCm
		changed = append(changed, "height_cm")
	}
	if attrs.WeightKg != nil {
		user.WeightKg = attrs.WeightKg
		changed = append(changed, "weight_kg")
	}
	if attrs.ActivityLevel != nil {
		user.ActivityLevel = *attrs.ActivityLevel
		changed = append(changed, "activity_level")
	}
	if attrs.GoalType != nil {
		user.GoalType = *attrs.GoalType
		changed = append(changed, "goal_type")
	}
	if attrs.DailyCaloriesGoal != nil {
		user.DailyCaloriesGoal = attrs.DailyCaloriesGoal
		changed = append(changed, "daily_calories_goal")
	}
	if attrs.DailyProteinGoalG != nil {
		user.DailyProteinGoalG = attrs.DailyProteinGoalG
		changed = append(changed, "daily_protein_goal_g")
	}
	if attrs.DailyFatsGoalG != nil {
		user.DailyFatsGoalG = attrs.DailyFatsGoalG
		changed = append(changed, "daily_fats_goal_g")
	}
	if attrs.DailyCarbsGoalG != nil {
		user.DailyCarbsGoalG = attrs.DailyCarbsGoalG
		changed = append(changed, "daily_carbs_goal_g")
	}

	return changed
}
