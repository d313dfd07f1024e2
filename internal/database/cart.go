package database

import (
	"database/sql"
	"fmt"

	"storefront-gateway/internal/models"
)

type CartQueries struct {
	db *sql.DB
}

func NewCartQueries(db *sql.DB) *CartQueries {
	return &CartQueries{db: db}
}

// GetOrCreateCartSession gets an existing cart session or creates a new one
func (q *CartQueries) GetOrCreateCartSession(sessionID string, userID *int) (*models.CartSession, error) {
	session, err := q.GetCartSessionByID(sessionID)
	if err == nil {
		// Attach the user to a previously anonymous session
		if userID != nil && session.UserID == nil {
			session.UserID = userID
			if err := q.UpdateCartSessionUser(session.ID, *userID); err != nil {
				return nil, fmt.Errorf("failed to update cart session user: %w", err)
			}
		}
		return session, nil
	}

	return q.CreateCartSession(sessionID, userID)
}

// GetCartSessionByID gets a cart session by session ID
func (q *CartQueries) GetCartSessionByID(sessionID string) (*models.CartSession, error) {
	query := `
		SELECT id, session_id, user_id, created_at, updated_at
		FROM cart_sessions
		WHERE session_id = $1
	`
	session := &models.CartSession{}
	err := q.db.QueryRow(query, sessionID).Scan(
		&session.ID,
		&session.SessionID,
		&session.UserID,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("cart session not found")
		}
		return nil, fmt.Errorf("failed to get cart session: %w", err)
	}
	return session, nil
}

// CreateCartSession creates a new cart session
func (q *CartQueries) CreateCartSession(sessionID string, userID *int) (*models.CartSession, error) {
	session := &models.CartSession{
		SessionID: sessionID,
		UserID:    userID,
	}

	query := `
		INSERT INTO cart_sessions (session_id, user_id, applied_coupons)
		VALUES ($1, $2, '[]')
		RETURNING id, created_at, updated_at
	`
	err := q.db.QueryRow(query, session.SessionID, session.UserID).Scan(
		&session.ID,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cart session: %w", err)
	}
	return session, nil
}

// UpdateCartSessionUser updates the user_id for a cart session
func (q *CartQueries) UpdateCartSessionUser(cartSessionID int, userID int) error {
	query := `UPDATE cart_sessions SET user_id = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	if _, err := q.db.Exec(query, userID, cartSessionID); err != nil {
		return fmt.Errorf("failed to update cart session user: %w", err)
	}
	return nil
}

// AddCartItem adds an item to the cart, or bumps the quantity when the
// same product/variant line already exists.
func (q *CartQueries) AddCartItem(cartSessionID int, req *models.CartItemRequest) (*models.CartItem, error) {
	existing, err := q.getCartItemByLine(cartSessionID, req.ProductID, req.VariantTitle)
	if err == nil {
		return q.UpdateCartItemQuantity(existing.ID, existing.Quantity+req.Quantity)
	}

	item := &models.CartItem{
		CartSessionID:      cartSessionID,
		ProductID:          req.ProductID,
		Title:              req.Title,
		Image:              req.Image,
		FinalPriceDiscount: req.FinalPriceDiscount,
		Quantity:           req.Quantity,
		VariantTitle:       req.VariantTitle,
		VariantPriceDelta:  req.VariantPriceDelta,
		ShippingOverride:   req.ShippingOverride,
	}

	query := `
		INSERT INTO cart_items (cart_session_id, product_id, title, image, final_price_discount,
			quantity, variant_title, variant_price_delta, shipping_override)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err = q.db.QueryRow(query, item.CartSessionID, item.ProductID, item.Title, item.Image,
		item.FinalPriceDiscount, item.Quantity, item.VariantTitle, item.VariantPriceDelta,
		item.ShippingOverride).Scan(
		&item.ID,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cart item: %w", err)
	}
	return item, nil
}

// getCartItemByLine finds an existing line for the same product and variant.
func (q *CartQueries) getCartItemByLine(cartSessionID int, productID string, variantTitle *string) (*models.CartItem, error) {
	query := `
		SELECT id, cart_session_id, product_id, title, image, final_price_discount,
			quantity, variant_title, variant_price_delta, shipping_override, created_at, updated_at
		FROM cart_items
		WHERE cart_session_id = $1 AND product_id = $2 AND variant_title IS NOT DISTINCT FROM $3
	`
	item := &models.CartItem{}
	err := q.db.QueryRow(query, cartSessionID, productID, variantTitle).Scan(
		&item.ID,
		&item.CartSessionID,
		&item.ProductID,
		&item.Title,
		&item.Image,
		&item.FinalPriceDiscount,
		&item.Quantity,
		&item.VariantTitle,
		&item.VariantPriceDelta,
		&item.ShippingOverride,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("cart item not found")
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	return item, nil
}

// UpdateCartItemQuantity updates the quantity of a cart item
func (q *CartQueries) UpdateCartItemQuantity(cartItemID, quantity int) (*models.CartItem, error) {
	query := `
		UPDATE cart_items
		SET quantity = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
		RETURNING id, cart_session_id, product_id, title, image, final_price_discount,
			quantity, variant_title, variant_price_delta, shipping_override, created_at, updated_at
	`
	item := &models.CartItem{}
	err := q.db.QueryRow(query, quantity, cartItemID).Scan(
		&item.ID,
		&item.CartSessionID,
		&item.ProductID,
		&item.Title,
		&item.Image,
		&item.FinalPriceDiscount,
		&item.Quantity,
		&item.VariantTitle,
		&item.VariantPriceDelta,
		&item.ShippingOverride,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	return item, nil
}

// RemoveCartItem removes an item from the cart
func (q *CartQueries) RemoveCartItem(cartItemID int) error {
	result, err := q.db.Exec(`DELETE FROM cart_items WHERE id = $1`, cartItemID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("cart item not found")
	}
	return nil
}

// ClearCart removes all items from a cart session and resets the applied
// coupon state.
func (q *CartQueries) ClearCart(cartSessionID int) error {
	tx, err := q.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cart_items WHERE cart_session_id = $1`, cartSessionID); err != nil {
		return fmt.Errorf("failed to clear cart items: %w", err)
	}

	if _, err := tx.Exec(`
		UPDATE cart_sessions
		SET applied_coupons = '[]', updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`, cartSessionID); err != nil {
		return fmt.Errorf("failed to clear applied coupons: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetCartItems gets all items in a cart, newest first
func (q *CartQueries) GetCartItems(cartSessionID int) ([]models.CartItem, error) {
	query := `
		SELECT id, cart_session_id, product_id, title, image, final_price_discount,
			quantity, variant_title, variant_price_delta, shipping_override, created_at, updated_at
		FROM cart_items
		WHERE cart_session_id = $1
		ORDER BY created_at DESC
	`
	rows, err := q.db.Query(query, cartSessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var item models.CartItem
		err := rows.Scan(
			&item.ID,
			&item.CartSessionID,
			&item.ProductID,
			&item.Title,
			&item.Image,
			&item.FinalPriceDiscount,
			&item.Quantity,
			&item.VariantTitle,
			&item.VariantPriceDelta,
			&item.ShippingOverride,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cart items: %w", err)
	}
	return items, nil
}

// GetCartItemCount gets the total number of items in a cart
func (q *CartQueries) GetCartItemCount(cartSessionID int) (int, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM cart_items WHERE cart_session_id = $1`
	var count int
	if err := q.db.QueryRow(query, cartSessionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get cart item count: %w", err)
	}
	return count, nil
}
