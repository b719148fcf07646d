package quotation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"estate-crm/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrPricingRejected carries the rule's message when a quotation fails
// validation.
type ErrPricingRejected struct {
	Message string
}

func (e *ErrPricingRejected) Error() string {
	return fmt.Sprintf("pricing rule rejected quotation: %s", e.Message)
}

type QuotationService interface {
	CreateQuotation(ctx context.Context, q *Quotation) (*Quotation, error)
	GetQuotationByID(ctx context.Context, id string) (*Quotation, error)
	ListQuotations(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]Quotation, int64, error)
	UpdateQuotation(ctx context.Context, id string, q *Quotation) error
	DeleteQuotation(ctx context.Context, id string) error

	GetPricingRule(ctx context.Context) (*PricingRule, error)
	SavePricingRule(ctx context.Context, name, script string) (*PricingRule, error)
}

type QuotationServiceImpl struct {
	QuotationRepo QuotationRepository
	Log           *zap.Logger
}

func NewQuotationService(quotationRepo QuotationRepository, log *zap.Logger) QuotationService {
	return &QuotationServiceImpl{
		QuotationRepo: quotationRepo,
		Log:           log,
	}
}

// price runs the tenant's rule (or the default) over the quotation and
// writes the computed final price back.
func (s *QuotationServiceImpl) price(ctx context.Context, q *Quotation) error {
	source := DefaultPricingScript
	if rule, err := s.QuotationRepo.FindRule(ctx); err == nil {
		source = rule.Script
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	role, _ := ctx.Value(models.RoleKey).(string)

	outcome, err := EvaluatePricing(ctx, source, PricingInput{
		ListPriceUF:   q.ListPriceUF,
		DiscountPct:   q.DiscountPct,
		CommissionPct: q.CommissionPct,
		Role:          role,
	})
	if err != nil {
		return err
	}
	if !outcome.Valid {
		return &ErrPricingRejected{Message: outcome.Message}
	}
	q.FinalPriceUF = outcome.FinalPriceUF
	return nil
}

func (s *QuotationServiceImpl) CreateQuotation(ctx context.Context, q *Quotation) (*Quotation, error) {
	if q.ClientID.IsZero() || q.UnitID.IsZero() {
		return nil, fmt.Errorf("client and unit are required")
	}
	if err := s.price(ctx, q); err != nil {
		return nil, err
	}

	q.ID = primitive.NewObjectID()
	if q.Status == "" {
		q.Status = StatusDraft
	}
	if userID, ok := ctx.Value(models.UserIDKey).(string); ok {
		q.CreatedBy = userID
	}
	q.CreatedAt = time.Now()
	q.UpdatedAt = time.Now()

	if err := s.QuotationRepo.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuotationServiceImpl) GetQuotationByID(ctx context.Context, id string) (*Quotation, error) {
	return s.QuotationRepo.FindByID(ctx, id)
}

func (s *QuotationServiceImpl) ListQuotations(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]Quotation, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return s.QuotationRepo.List(ctx, filter, limit, (page-1)*limit)
}

func (s *QuotationServiceImpl) UpdateQuotation(ctx context.Context, id string, q *Quotation) error {
	if err := s.price(ctx, q); err != nil {
		return err
	}
	q.UpdatedAt = time.Now()
	return s.QuotationRepo.Update(ctx, id, q)
}

func (s *QuotationServiceImpl) DeleteQuotation(ctx context.Context, id string) error {
	return s.QuotationRepo.Delete(ctx, id)
}

func (s *QuotationServiceImpl) GetPricingRule(ctx context.Context) (*PricingRule, error) {
	rule, err := s.QuotationRepo.FindRule(ctx)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &PricingRule{Name: "default", Script: DefaultPricingScript}, nil
	}
	return rule, err
}

func (s *QuotationServiceImpl) SavePricingRule(ctx context.Context, name, script string) (*PricingRule, error) {
	if script == "" {
		return nil, fmt.Errorf("script is required")
	}
	if err := ValidatePricingScript(script); err != nil {
		return nil, err
	}

	rule := &PricingRule{
		Name:      name,
		Script:    script,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if userID, ok := ctx.Value(models.UserIDKey).(string); ok {
		rule.UpdatedBy = userID
	}
	if err := s.QuotationRepo.SaveRule(ctx, rule); err != nil {
		return nil, err
	}

	s.Log.Info("pricing rule updated", zap.String("name", name))
	return rule, nil
}
