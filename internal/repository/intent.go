package repository

import (
	"context"
	"time"

	"shop-checkout-service/internal/model"

	"gorm.io/gorm"
)

type IntentRepository interface {
	Create(ctx context.Context, intent *model.PaymentIntent) error
	// FindByExternalID is scoped to the owning user so an intent id from
	// another account resolves to nothing.
	FindByExternalID(ctx context.Context, userID, externalID string) (*model.PaymentIntent, error)
	// FindOpenByFingerprint returns the user's requires_payment intent for
	// a cart fingerprint, if one exists. Backs createIntent idempotency.
	FindOpenByFingerprint(ctx context.Context, userID, fingerprint string) (*model.PaymentIntent, error)
	// FindLatestByFingerprint returns the newest intent for the attempt
	// regardless of status. Order placement uses it to resolve which
	// intent belongs to the cart being placed.
	FindLatestByFingerprint(ctx context.Context, userID, fingerprint string) (*model.PaymentIntent, error)
	UpdateStatus(ctx context.Context, externalID, status string) error
	// FindOrphaned returns succeeded intents older than cutoff that have
	// no order and have not been flagged yet.
	FindOrphaned(ctx context.Context, cutoff time.Time) ([]*model.PaymentIntent, error)
	MarkFlagged(ctx context.Context, externalID string) error
}

type intentRepoImpl struct {
	db *gorm.DB
}

func NewIntentRepository(db *gorm.DB) IntentRepository {
	return &intentRepoImpl{
		db: db,
	}
}

func (r *intentRepoImpl) Create(ctx context.Context, intent *model.PaymentIntent) error {
	return r.db.WithContext(ctx).Create(intent).Error
}

func (r *intentRepoImpl) FindByExternalID(ctx context.Context, userID, externalID string) (*model.PaymentIntent, error) {
	var intent model.PaymentIntent
	err := r.db.WithContext(ctx).
		Where("external_id = ? AND user_id = ?", externalID, userID).
		First(&intent).Error

	if err != nil {
		return nil, err
	}

	return &intent, nil
}

func (r *intentRepoImpl) FindOpenByFingerprint(ctx context.Context, userID, fingerprint string) (*model.PaymentIntent, error) {
	var intent model.PaymentIntent
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND cart_fingerprint = ? AND status = ?",
			userID, fingerprint, model.IntentStatusRequiresPayment).
		Order("created_at DESC").
		First(&intent).Error

	if err != nil {
		return nil, err
	}

	return &intent, nil
}

func (r *intentRepoImpl) FindLatestByFingerprint(ctx context.Context, userID, fingerprint string) (*model.PaymentIntent, error) {
	var intent model.PaymentIntent
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND cart_fingerprint = ?", userID, fingerprint).
		Order("created_at DESC").
		First(&intent).Error

	if err != nil {
		return nil, err
	}

	return &intent, nil
}

func (r *intentRepoImpl) UpdateStatus(ctx context.Context, externalID, status string) error {
	result := r.db.WithContext(ctx).Model(&model.PaymentIntent{}).
		Where("external_id = ?", externalID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *intentRepoImpl) FindOrphaned(ctx context.Context, cutoff time.Time) ([]*model.PaymentIntent, error) {
	var intents []*model.PaymentIntent
	err := r.db.WithContext(ctx).
		Where(`
			status = ?
			AND flagged = ?
			AND created_at < ?
			AND external_id NOT IN (SELECT payment_intent_id FROM orders)
		`,
			model.IntentStatusSucceeded, false, cutoff,
		).
		Find(&intents).Error

	if err != nil {
		return nil, err
	}

	return intents, nil
}

func (r *intentRepoImpl) MarkFlagged(ctx context.Context, externalID string) error {
	return r.db.WithContext(ctx).Model(&model.PaymentIntent{}).
		Where("external_id = ?", externalID).
		Updates(map[string]interface{}{
			"flagged":    true,
			"updated_at": time.Now(),
		}).Error
}
