package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/pkg/catalog"
	"foodgram-backend/pkg/relation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.ComposeRecipeRequest, userID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.ComposeRecipeRequest, userID string) (domain.RecipeResponse, error)
		GetRecipe(ctx context.Context, recipeID string, userID string) (domain.RecipeResponse, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, userID string) ([]domain.RecipeResponse, int64, error)
		DeleteRecipe(ctx context.Context, recipeID string, userID string) error
		AddRelation(ctx context.Context, kind string, recipeID string, userID string) (domain.RecipeShortResponse, error)
		RemoveRelation(ctx context.Context, kind string, recipeID string, userID string) error
		DownloadShoppingCart(ctx context.Context, userID string) ([]domain.ShoppingListItem, error)
		EmailShoppingCart(ctx context.Context, userID string) error
	}

	// Mailer sends the rendered shopping list; backed by the SMTP sender
	// in production and stubbed in tests.
	Mailer interface {
		Send(to, subject, body string) error
	}

	// UserLookup resolves the recipient address for the mailed shopping
	// list without pulling in the user package.
	UserLookup interface {
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
	}

	recipeService struct {
		recipeRepository  RecipeRepository
		catalogRepository catalog.CatalogRepository
		relationService   relation.RelationService
		userLookup        UserLookup
		mailer            Mailer
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	catalogRepository catalog.CatalogRepository,
	relationService relation.RelationService,
	userLookup UserLookup,
	mailer Mailer,
) RecipeService {
	return &recipeService{
		recipeRepository:  recipeRepository,
		catalogRepository: catalogRepository,
		relationService:   relationService,
		userLookup:        userLookup,
		mailer:            mailer,
	}
}

// validateComposition resolves the submitted tag and ingredient lists
// against the catalog and checks them in a fixed order: unknown
// ingredient, invalid amount, duplicate ingredient, duplicate or unknown
// tag, then missing scalar fields.
func (s *recipeService) validateComposition(ctx context.Context, req domain.ComposeRecipeRequest) ([]*entities.Tag, []*entities.RecipeIngredient, error) {
	if len(req.Ingredients) == 0 {
		return nil, nil, fmt.Errorf("%w: ingredients", domain.ErrMissingField)
	}
	if len(req.TagIDs) == 0 {
		return nil, nil, fmt.Errorf("%w: tags", domain.ErrMissingField)
	}

	ingredientIDs := make([]string, 0, len(req.Ingredients))
	for _, line := range req.Ingredients {
		ingredientIDs = append(ingredientIDs, line.IngredientID)
	}

	ingredients, err := s.catalogRepository.GetIngredientsByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, nil, err
	}
	ingredientByID := make(map[string]*entities.Ingredient, len(ingredients))
	for _, ingredient := range ingredients {
		ingredientByID[ingredient.ID.String()] = ingredient
	}

	for _, line := range req.Ingredients {
		if _, ok := ingredientByID[line.IngredientID]; !ok {
			return nil, nil, fmt.Errorf("%w: %s", domain.ErrUnknownIngredient, line.IngredientID)
		}
	}
	for _, line := range req.Ingredients {
		if line.Amount < 1 {
			return nil, nil, domain.ErrInvalidAmount
		}
	}

	seenIngredients := make(map[string]bool, len(req.Ingredients))
	lines := make([]*entities.RecipeIngredient, 0, len(req.Ingredients))
	for _, line := range req.Ingredients {
		if seenIngredients[line.IngredientID] {
			return nil, nil, domain.ErrDuplicateIngredient
		}
		seenIngredients[line.IngredientID] = true
		lines = append(lines, &entities.RecipeIngredient{
			ID:           uuid.New(),
			IngredientID: ingredientByID[line.IngredientID].ID,
			Amount:       line.Amount,
		})
	}

	seenTags := make(map[string]bool, len(req.TagIDs))
	for _, tagID := range req.TagIDs {
		if seenTags[tagID] {
			return nil, nil, domain.ErrDuplicateTag
		}
		seenTags[tagID] = true
	}
	tags, err := s.catalogRepository.GetTagsByIDs(ctx, req.TagIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(tags) != len(req.TagIDs) {
		return nil, nil, domain.ErrUnknownTag
	}

	if strings.TrimSpace(req.Name) == "" {
		return nil, nil, fmt.Errorf("%w: name", domain.ErrMissingField)
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, nil, fmt.Errorf("%w: text", domain.ErrMissingField)
	}
	if req.CookingTime == 0 {
		return nil, nil, fmt.Errorf("%w: cooking_time", domain.ErrMissingField)
	}
	if req.CookingTime < 1 {
		return nil, nil, domain.ErrInvalidCookingTime
	}

	return tags, lines, nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.ComposeRecipeRequest, userID string) (domain.RecipeResponse, error) {
	authorID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	tags, lines, err := s.validateComposition(ctx, req)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe := entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		ImageURL:    req.Image,
	}
	if err := s.recipeRepository.CreateRecipe(ctx, &recipe, tags, lines); err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipe(ctx, recipe.ID.String(), userID)
}

// UpdateRecipe validates the full payload and replaces the recipe's tag
// set and ingredient set wholesale. No diffing against the old sets: the
// submitted lists are the new truth.
func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.ComposeRecipeRequest, userID string) (domain.RecipeResponse, error) {
	existing, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}
	if existing.AuthorID.String() != userID {
		return domain.RecipeResponse{}, domain.ErrNotRecipeAuthor
	}

	tags, lines, err := s.validateComposition(ctx, req)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	existing.Name = req.Name
	existing.Text = req.Text
	existing.CookingTime = req.CookingTime
	if req.Image != "" {
		existing.ImageURL = req.Image
	}
	existing.Tags = nil
	existing.Ingredients = nil

	if err := s.recipeRepository.UpdateRecipe(ctx, existing, tags, lines); err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipe(ctx, recipeID, userID)
}

func (s *recipeService) GetRecipe(ctx context.Context, recipeID string, userID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}
	return s.toResponse(ctx, recipe, userID), nil
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, userID string) ([]domain.RecipeResponse, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		result = append(result, s.toResponse(ctx, recipe, userID))
	}
	return result, count, nil
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, userID string) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}
	if recipe.AuthorID.String() != userID {
		return domain.ErrNotRecipeAuthor
	}
	return s.recipeRepository.DeleteRecipe(ctx, recipeID)
}

// AddRelation puts the recipe into the user's favorites or shopping cart
// and returns the short representation. The uniqueness guarantee lives in
// the relation layer.
func (s *recipeService) AddRelation(ctx context.Context, kind string, recipeID string, userID string) (domain.RecipeShortResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeShortResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeShortResponse{}, err
	}

	if err := s.relationService.Add(ctx, kind, userID, recipeID); err != nil {
		return domain.RecipeShortResponse{}, err
	}

	return domain.RecipeShortResponse{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}, nil
}

func (s *recipeService) RemoveRelation(ctx context.Context, kind string, recipeID string, userID string) error {
	if _, err := s.recipeRepository.GetRecipeByID(ctx, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}
	return s.relationService.Remove(ctx, kind, userID, recipeID)
}

func (s *recipeService) DownloadShoppingCart(ctx context.Context, userID string) ([]domain.ShoppingListItem, error) {
	items, err := s.recipeRepository.AggregateShoppingCart(ctx, userID, domain.KindShoppingCart)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.ShoppingListItem{}
	}
	return items, nil
}

func (s *recipeService) EmailShoppingCart(ctx context.Context, userID string) error {
	user, err := s.userLookup.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	items, err := s.DownloadShoppingCart(ctx, userID)
	if err != nil {
		return err
	}
	return s.mailer.Send(user.Email, "Your shopping list", FormatShoppingList(items))
}

// FormatShoppingList renders the aggregate as the downloadable plain-text
// attachment: a header line, then one line per ingredient identity.
func FormatShoppingList(items []domain.ShoppingListItem) string {
	var b strings.Builder
	b.WriteString("Shopping list:\n")
	for _, item := range items {
		fmt.Fprintf(&b, "- %s (%s): %d\n", item.Name, item.MeasurementUnit, item.Amount)
	}
	return b.String()
}

func (s *recipeService) toResponse(ctx context.Context, recipe *entities.Recipe, userID string) domain.RecipeResponse {
	tags := make([]domain.TagResponse, 0, len(recipe.Tags))
	for _, tag := range recipe.Tags {
		tags = append(tags, domain.TagResponse{
			ID:   tag.ID.String(),
			Name: tag.Name,
			Slug: tag.Slug,
		})
	}

	ingredients := make([]domain.RecipeIngredientResponse, 0, len(recipe.Ingredients))
	for _, line := range recipe.Ingredients {
		response := domain.RecipeIngredientResponse{
			ID:     line.IngredientID.String(),
			Amount: line.Amount,
		}
		if line.Ingredient != nil {
			response.Name = line.Ingredient.Name
			response.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, response)
	}

	author := domain.UserResponse{ID: recipe.AuthorID.String()}
	if recipe.Author != nil {
		author.Email = recipe.Author.Email
		author.Username = recipe.Author.Username
		author.FirstName = recipe.Author.FirstName
		author.LastName = recipe.Author.LastName
		author.Avatar = recipe.Author.AvatarURL
	}

	isFavorited := false
	isInCart := false
	if userID != "" {
		isFavorited, _ = s.relationService.Exists(ctx, domain.KindFavorite, userID, recipe.ID.String())
		isInCart, _ = s.relationService.Exists(ctx, domain.KindShoppingCart, userID, recipe.ID.String())
		author.IsSubscribed, _ = s.relationService.Exists(ctx, domain.KindFollow, userID, recipe.AuthorID.String())
	}

	return domain.RecipeResponse{
		ID:               recipe.ID.String(),
		Author:           author,
		Name:             recipe.Name,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
		Image:            recipe.ImageURL,
		Tags:             tags,
		Ingredients:      ingredients,
		IsFavorited:      isFavorited,
		IsInShoppingCart: isInCart,
		CreatedAt:        recipe.CreatedAt,
	}
}
