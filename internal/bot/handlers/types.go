package handlers

import (
	"github.com/nutriplus/nutribot/internal/interfaces"
)

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	UserService   interfaces.UserServiceInterface
	MealService   interfaces.MealServiceInterface
	RecipeService interfaces.RecipeServiceInterface
	AIService     interfaces.AIServiceInterface
}
