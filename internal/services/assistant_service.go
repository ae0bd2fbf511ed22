// internal/services/assistant_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopkit/storefront-backend/internal/models"
	"github.com/shopkit/storefront-backend/internal/utils"
)

// AssistantService answers customer questions about the catalog through an
// injected generative-AI client.
type AssistantService struct {
	db     *gorm.DB
	client AIClient
}

type AskRequest struct {
	Question  string     `json:"question" validate:"required,min=5,max=500"`
	ProductID *uuid.UUID `json:"productId,omitempty"`
}

func NewAssistantService(db *gorm.DB, client AIClient) *AssistantService {
	return &AssistantService{db: db, client: client}
}

// AskQuestion builds the assistant prompt, prepending product details when
// the question references a resolvable product, and forwards it to the AI
// client. A productId that doesn't resolve is ignored rather than rejected.
func (s *AssistantService) AskQuestion(ctx context.Context, req *AskRequest) (string, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return "", utils.ValidationFailedError(err)
	}

	productContext := ""
	if req.ProductID != nil {
		var product models.Product
		err := s.db.First(&product, "id = ?", *req.ProductID).Error
		if err == nil {
			productContext = fmt.Sprintf(`
Product Information:
- Name: %s
- Description: %s
- Price: $%.2f
- Category: %s
- Stock: %d units available
`, product.Name, product.Description, product.Price, product.Category, product.Stock)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("database error: %w", err)
		}
	}

	if productContext == "" {
		productContext = "You can answer questions about products in general."
	}

	prompt := fmt.Sprintf(`You are a helpful product assistant for an e-commerce store.
%s

User Question: %s

Please provide a clear, helpful, and concise answer. If the question is about a specific product, use the product information provided.
Keep your response friendly and informative, suitable for customers who may not be tech-savvy.`,
		productContext, strings.TrimSpace(req.Question))

	answer, err := s.client.Ask(ctx, prompt)
	if err != nil {
		return "", utils.InternalError("AI service error: %v", err)
	}

	return answer, nil
}
