package domain

import (
	"time"
)

// MealRecord is a single diary entry. Records are immutable once created;
// an edit is modeled as remove followed by add.
type MealRecord struct {
	ID          string
	Name        string
	Timestamp   time.Time
	Calories    float64
	Protein     float64
	Carbs       float64
	Fat         float64
	Portion     string
	ImageURL    string
	Ingredients []string
}

// MacroGoals holds the four daily targets. Calories == 0 means the user
// has not finished first-run setup yet.
type MacroGoals struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
}

// Configured reports whether the user has completed goal setup.
func (g MacroGoals) Configured() bool {
	return g.Calories > 0
}

// MacroTotals is a summed calorie/macro tuple for one time bucket.
type MacroTotals struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
}

// AnalysisResult is what the nutrition-estimation collaborator returns for
// one food photo. Either every field is populated or the call failed.
type AnalysisResult struct {
	FoodName    string   `json:"foodName"`
	Description string   `json:"description"`
	Portion     string   `json:"portion"`
	Calories    float64  `json:"calories"`
	Protein     float64  `json:"protein"`
	Carbs       float64  `json:"carbs"`
	Fat         float64  `json:"fat"`
	Ingredients []string `json:"ingredients"`
}

// Recipe is one suggestion from the recipe collaborator.
type Recipe struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	TimeToCook   string   `json:"timeToCook"`
	Difficulty   string   `json:"difficulty"`
	Calories     float64  `json:"calories"`
	Protein      float64  `json:"protein"`
	Carbs        float64  `json:"carbs"`
	Fat          float64  `json:"fat"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

// UserProfile is the identity snapshot the bot works with on every update.
type UserProfile struct {
	ID                 uint
	TelegramID         int64
	Username           string
	FirstName          string
	LastName           string
	CreatedAt          time.Time
	SubscriptionActive bool
	Goals              MacroGoals
}
