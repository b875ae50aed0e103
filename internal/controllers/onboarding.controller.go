package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nutrilog/internal/measurement"
	"nutrilog/internal/middleware"
	"nutrilog/internal/repository"
	"nutrilog/internal/services"
)

type OnboardingController struct {
	userRepo       repository.UserRepository
	profileService *services.ProfileService
}

func NewOnboardingController(userRepo repository.UserRepository, profileService *services.ProfileService) *OnboardingController {
	return &OnboardingController{userRepo: userRepo, profileService: profileService}
}

type onboardingRequest struct {
	Username          string `form:"username" json:"username"`
	Sex               string `form:"sex" json:"sex"`
	DateOfBirth       string `form:"date_of_birth" json:"date_of_birth"`
	HeightInput       string `form:"height_input" json:"height_input"`
	WeightInput       string `form:"weight_input" json:"weight_input"`
	HeightCm          string `form:"height_cm" json:"height_cm"`
	WeightKg          string `form:"weight_kg" json:"weight_kg"`
	ActivityLevel     string `form:"activity_level" json:"activity_level"`
	GoalType          string `form:"goal_type" json:"goal_type"`
	DailyCaloriesGoal string `form:"daily_calories_goal" json:"daily_calories_goal"`
	DailyProteinGoalG string `form:"daily_protein_goal_g" json:"daily_protein_goal_g"`
	DailyFatsGoalG    string `form:"daily_fats_goal_g" json:"daily_fats_goal_g"`
	DailyCarbsGoalG   string `form:"daily_carbs_goal_g" json:"daily_carbs_goal_g"`
	MeasurementSystem string `form:"measurement_system" json:"measurement_system"`
}

// GetSurvey returns the current profile plus measurement form defaults
// rendered in the requested system.
func (oc *OnboardingController) GetSurvey(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	user, err := oc.userRepo.FindByID(userID)
	if err != nil {
		userNotFound(c)
		return
	}

	system := c.Query("measurement_system")
	if system == "" {
		system = measurement.SystemMetric
	}

	data := gin.H{
		"user":               user,
		"measurement_system": system,
		"height_input":       measurement.FormatHeight(user.HeightCm, system),
		"weight_input":       measurement.FormatWeight(user.WeightKg, system),
	}
	if user.SurveyCompleted {
		data["notice"] = "Updating your profile will recalculate today's goals."
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Onboarding survey retrieved successfully",
		"data":    data,
	})
}

// SubmitSurvey normalizes the raw measurements, completes the survey and
// assigns daily targets (manual or computed).
func (oc *OnboardingController) SubmitSurvey(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	user, err := oc.userRepo.FindByID(userID)
	if err != nil {
		userNotFound(c)
		return
	}

	var req onboardingRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	attrs, errs := surveyAttributes(req)
	if len(errs) > 0 {
		validationFailed(c, errs)
		return
	}

	validationErrs, err := oc.profileService.CompleteSurvey(user, attrs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to save profile",
			"error":   err.Error(),
		})
		return
	}
	if len(validationErrs) > 0 {
		validationFailed(c, validationErrs)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Goals calculated successfully",
		"data":    user,
	})
}

// surveyAttributes converts the raw request into normalized survey
// attributes. Height and weight go through the measurement normalizer;
// unparseable free text comes back nil and the stored value is then left
// untouched rather than cleared.
func surveyAttributes(req onboardingRequest) (services.SurveyAttributes, []string) {
	var errs []string

	heightCm, ok := optInt(req.HeightCm)
	if !ok {
		errs = append(errs, "height_cm must be a number")
	}
	weightKg, ok := optFloat(req.WeightKg)
	if !ok {
		errs = append(errs, "weight_kg must be a number")
	}

	normalized := measurement.Normalize(measurement.Params{
		HeightInput: req.HeightInput,
		WeightInput: req.WeightInput,
		HeightCm:    heightCm,
		WeightKg:    weightKg,
	}, req.MeasurementSystem)

	dateOfBirth, ok := optDate(req.DateOfBirth)
	if !ok {
		errs = append(errs, "date_of_birth must be a valid date (YYYY-MM-DD)")
	}

	calories, ok := optInt(req.DailyCaloriesGoal)
	if !ok {
		errs = append(errs, "daily_calories_goal must be a number")
	}
	protein, ok := optInt(req.DailyProteinGoalG)
	if !ok {
		errs = append(errs, "daily_protein_goal_g must be a number")
	}
	fats, ok := optInt(req.DailyFatsGoalG)
	if !ok {
		errs = append(errs, "daily_fats_goal_g must be a number")
	}
	carbs, ok := optInt(req.DailyCarbsGoalG)
	if !ok {
		errs = append(errs, "daily_carbs_goal_g must be a number")
	}

	if len(errs) > 0 {
		return services.SurveyAttributes{}, errs
	}

	return services.SurveyAttributes{
		Username:          optString(req.Username),
		Sex:               optString(req.Sex),
		DateOfBirth:       dateOfBirth,
		HeightCm:          normalized.HeightCm,
		WeightKg:          normalized.WeightKg,
		ActivityLevel:     optString(req.ActivityLevel),
		GoalType:          optString(req.GoalType),
		DailyCaloriesGoal: calories,
		DailyProteinGoalG: protein,
		DailyFatsGoalG:    fats,
		DailyCarbsGoalG:   carbs,
	}, nil
}

func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"status":  "error",
		"message": "Unauthorized",
		"error":   "User not authenticated",
	})
}

func userNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"status":  "error",
		"message": "User not found",
		"error":   "No user exists with the provided ID",
	})
}

func validationFailed(c *gin.Context, errs []string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"status":  "error",
		"message": "Please correct the highlighted errors",
		"error":   errs,
	})
}
