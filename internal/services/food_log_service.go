package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"nutrilog/internal/models"
	"nutrilog/internal/repository"
	"nutrilog/internal/vision"
)

// FoodLogParams carries a create/update request. Nil macro pointers mean the
// field was blank in the form; a nil Photo means no new photo was uploaded.
type FoodLogParams struct {
	FoodName      string
	Calories      *int
	ProteinG      *int
	FatsG         *int
	CarbsG        *int
	Photo         []byte
	PhotoFilename string
}

// FoodLogResult is the service outcome: Success is true iff the record was
// persisted and no error message is set.
type FoodLogResult struct {
	Success      bool            `json:"success"`
	FoodLog      *models.FoodLog `json:"food_log,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// AnalysisCache stores successful vision analyses keyed by image digest so a
// re-submitted photo skips the external call.
type AnalysisCache interface {
	GetAnalysis(imageDigest string) (vision.Analysis, bool, error)
	StoreAnalysis(imageDigest string, analysis vision.Analysis, duration time.Duration) error
}

const analysisCacheTTL = 24 * time.Hour

// FoodLogService orchestrates manual and photo-analyzed meal entry. The
// vision collaborator is consulted only when a photo is supplied and every
// macro field is blank; its failures abort the save with no partial record.
type FoodLogService struct {
	foodLogRepo repository.FoodLogRepository
	analyzer    vision.Analyzer
	cache       AnalysisCache
	uploadsDir  string
}

func NewFoodLogService(foodLogRepo repository.FoodLogRepository, analyzer vision.Analyzer, cache AnalysisCache, uploadsDir string) *FoodLogService {
	return &FoodLogService{
		foodLogRepo: foodLogRepo,
		analyzer:    analyzer,
		cache:       cache,
		uploadsDir:  uploadsDir,
	}
}

func (p FoodLogParams) requiresAnalysis() bool {
	return len(p.Photo) > 0 &&
		p.Calories == nil && p.ProteinG == nil && p.FatsG == nil && p.CarbsG == nil
}

// Create builds and persists a new food log for the user.
func (s *FoodLogService) Create(ctx context.Context, user *models.User, params FoodLogParams) FoodLogResult {
	foodLog := &models.FoodLog{
		UserID:   user.ID,
		FoodName: params.FoodName,
		Calories: params.Calories,
		ProteinG: params.ProteinG,
		FatsG:    params.FatsG,
		CarbsG:   params.CarbsG,
	}

	if params.requiresAnalysis() {
		analysis := s.analyze(ctx, params.Photo, params.FoodName)
		if !analysis.Success {
			return FoodLogResult{FoodLog: foodLog, ErrorMessage: analysis.ErrorMessage}
		}
		applyAnalysis(foodLog, analysis)
	}

	if errs := foodLog.Validate(); len(errs) > 0 {
		return FoodLogResult{FoodLog: foodLog, ErrorMessage: strings.Join(errs, ", ")}
	}

	if len(params.Photo) > 0 {
		imageURL, err := s.storePhoto(params.Photo, params.PhotoFilename)
		if err != nil {
			log.Printf("failed to store photo: %v", err)
			return FoodLogResult{FoodLog: foodLog, ErrorMessage: "We couldn't store the uploaded photo."}
		}
		foodLog.ImageURL = imageURL
	}

	if err := s.foodLogRepo.Create(foodLog); err != nil {
		s.removePhoto(foodLog.ImageURL)
		foodLog.ImageURL = ""
		return FoodLogResult{FoodLog: foodLog, ErrorMessage: err.Error()}
	}
	return FoodLogResult{Success: true, FoodLog: foodLog}
}

// Update merges the supplied fields onto an existing entry. The photo column
// is left out of the update set entirely when no new photo was uploaded so
// an existing attachment is never cleared.
func (s *FoodLogService) Update(ctx context.Context, foodLog *models.FoodLog, params FoodLogParams) FoodLogResult {
	if strings.TrimSpace(params.FoodName) != "" {
		foodLog.FoodName = params.FoodName
	}
	if params.Calories != nil {
		foodLog.Calories = params.Calories
	}
	if params.ProteinG != nil {
		foodLog.ProteinG = params.ProteinG
	}
	if params.FatsG != nil {
		foodLog.FatsG = params.FatsG
	}
	if params.CarbsG != nil {
		foodLog.CarbsG = params.CarbsG
	}

	if params.requiresAnalysis() {
		hint := params.FoodName
		if strings.TrimSpace(hint) == "" {
			hint = foodLog.FoodName
		}
		analysis := s.analyze(ctx, params.Photo, hint)
		if !analysis.Success {
			return FoodLogResult{FoodLog: foodLog, ErrorMessage: analysis.ErrorMessage}
		}
		applyAnalysis(foodLog, analysis)
	}

	if errs := foodLog.Validate(); len(errs) > 0 {
		return FoodLogResult{FoodLog: foodLog, ErrorMessage: strings.Join(errs, ", ")}
	}

	updates := map[string]interface{}{
		"food_name": foodLog.FoodName,
		"calories":  foodLog.Calories,
		"protein_g": foodLog.ProteinG,
		"fats_g":    foodLog.FatsG,
		"carbs_g":   foodLog.CarbsG,
	}

	previousImageURL := foodLog.ImageURL
	if len(params.Photo) > 0 {
		imageURL, err := s.storePhoto(params.Photo, params.PhotoFilename)
		if err != nil {
			log.Printf("failed to store photo: %v", err)
			return FoodLogResult{FoodLog: foodLog, ErrorMessage: "We couldn't store the uploaded photo."}
		}
		foodLog.ImageURL = imageURL
		updates["image_url"] = imageURL
	}

	if err := s.foodLogRepo.Update(foodLog, updates); err != nil {
		if foodLog.ImageURL != previousImageURL {
			s.removePhoto(foodLog.ImageURL)
			foodLog.ImageURL = previousImageURL
		}
		return FoodLogResult{FoodLog: foodLog, ErrorMessage: err.Error()}
	}
	return FoodLogResult{Success: true, FoodLog: foodLog}
}

func applyAnalysis(foodLog *models.FoodLog, analysis vision.Analysis) {
	macros := analysis.Macros
	foodLog.Calories = &macros.Calories
	foodLog.ProteinG = &macros.ProteinG
	foodLog.FatsG = &macros.FatsG
	foodLog.CarbsG = &macros.CarbsG
	if strings.TrimSpace(analysis.FoodName) != "" {
		foodLog.FoodName = analysis.FoodName
	}
}

// analyze wraps the vision call with the digest-keyed cache. Cache errors
// are logged and treated as misses; a failed analysis is never cached.
func (s *FoodLogService) analyze(ctx context.Context, image []byte, nameHint string) vision.Analysis {
	digest := sha256.Sum256(image)
	key := hex.EncodeToString(digest[:])

	if s.cache != nil {
		cached, found, err := s.cache.GetAnalysis(key)
		if err != nil {
			log.Printf("analysis cache read failed: %v", err)
		} else if found && cached.Success {
			return cached
		}
	}

	analysis := s.analyzer.Analyze(ctx, image, nameHint)

	if analysis.Success && s.cache != nil {
		if err := s.cache.StoreAnalysis(key, analysis, analysisCacheTTL); err != nil {
			log.Printf("analysis cache write failed: %v", err)
		}
	}
	return analysis
}

func (s *FoodLogService) storePhoto(photo []byte, filename string) (string, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}

	if err := os.MkdirAll(s.uploadsDir, 0o755); err != nil {
		return "", err
	}

	name := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(s.uploadsDir, name), photo, 0o644); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

// removePhoto deletes a stored upload after its database record failed to
// persist, so failed saves leave no orphaned files.
func (s *FoodLogService) removePhoto(imageURL string) {
	name := strings.TrimPrefix(imageURL, "/uploads/")
	if name == "" || name == imageURL {
		return
	}
	if err := os.Remove(filepath.Join(s.uploadsDir, name)); err != nil {
		log.Printf("failed to remove photo: %v", err)
	}
}
