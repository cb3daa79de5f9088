package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"leadgram-backend/internal/model"
)

type ListingRepository struct {
	DB *sql.DB
}

func NewListingRepository(db *sql.DB) *ListingRepository {
	return &ListingRepository{DB: db}
}

const listingColumns = `id, user_id, title, description, price, status, source, external_id, messages_48h, responses_count, last_response_at, created_at, updated_at`

func scanListing(row interface {
	Scan(dest ...interface{}) error
}) (*model.Listing, error) {
	var l model.Listing
	var description, externalID sql.NullString
	var price sql.NullFloat64
	var lastResponseAt sql.NullTime

	err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.Title,
		&description,
		&price,
		&l.Status,
		&l.Source,
		&externalID,
		&l.Messages48h,
		&l.ResponsesCount,
		&lastResponseAt,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Description = description.String
	l.ExternalID = externalID.String
	if price.Valid {
		l.Price = &price.Float64
	}
	if lastResponseAt.Valid {
		l.LastResponseAt = &lastResponseAt.Time
	}

	return &l, nil
}

func (r *ListingRepository) CreateListing(ctx context.Context, listing *model.Listing) error {
	query := `
		INSERT INTO listings (id, user_id, title, description, price, status, source, external_id, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, NULLIF($8, ''), $9, $10)`

	_, err := r.DB.ExecContext(ctx, query,
		listing.ID,
		listing.UserID,
		listing.Title,
		listing.Description,
		listing.Price,
		listing.Status,
		listing.Source,
		listing.ExternalID,
		listing.CreatedAt,
		listing.UpdatedAt,
	)
	return err
}

func (r *ListingRepository) GetListings(ctx context.Context, userID string, limit int) ([]*model.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings
		WHERE user_id = $1
		ORDER BY updated_at DESC, id ASC
		LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*model.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, rows.Err()
}

func (r *ListingRepository) GetListingByID(ctx context.Context, listingID, userID string) (*model.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1 AND user_id = $2`

	listing, err := scanListing(r.DB.QueryRowContext(ctx, query, listingID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return listing, nil
}

func (r *ListingRepository) UpdateListing(ctx context.Context, listingID, userID string, update model.ListingUpdate) (*model.Listing, error) {
	setClause := "updated_at = $1"
	args := []interface{}{time.Now().UTC()}

	appendSet := func(column string, value interface{}) {
		args = append(args, value)
		setClause += fmt.Sprintf(", %s = $%d", column, len(args))
	}

	if update.Title != nil {
		appendSet("title", *update.Title)
	}
	if update.Description != nil {
		appendSet("description", *update.Description)
	}
	if update.Price != nil {
		appendSet("price", *update.Price)
	}
	if update.Status != nil {
		appendSet("status", *update.Status)
	}

	args = append(args, listingID, userID)
	query := fmt.Sprintf("UPDATE listings SET %s WHERE id = $%d AND user_id = $%d",
		setClause, len(args)-1, len(args))

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, nil
	}

	return r.GetListingByID(ctx, listingID, userID)
}

func (r *ListingRepository) DeleteListing(ctx context.Context, listingID, userID string) (bool, error) {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM listings WHERE id = $1 AND user_id = $2`, listingID, userID)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
