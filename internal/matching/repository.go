package matching

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrProfileNotFound = errors.New("profile not found")

// Repository supplies the engine's inputs: profiles, a coarse candidate
// pre-selection, swipe histories and persisted quality ratings. The
// engine itself never touches it; the service resolves everything before
// invoking the engine.
type Repository interface {
	GetProfile(ctx context.Context, id string) (*Profile, error)
	FindCandidates(ctx context.Context, userID string, filters *FilterSettings, limit int) ([]*Profile, error)
	GetActiveUserIDs(ctx context.Context, days int) ([]string, error)

	GetInteractionHistory(ctx context.Context, userID string) (*InteractionHistory, error)
	RecordSwipe(ctx context.Context, userID, targetID, decision string) error

	LoadRatings(ctx context.Context) (map[string]float64, error)
	SaveRating(ctx context.Context, userID string, rating float64) error
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository wraps the shared sqlx pool.
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// profileRow mirrors the profiles table; nullable coordinates are scanned
// separately so a half-set pair can be rejected instead of coerced.
type profileRow struct {
	ID              string          `db:"id"`
	DisplayName     string          `db:"display_name"`
	Age             int             `db:"age"`
	Bio             string          `db:"bio"`
	LocationLat     sql.NullFloat64 `db:"location_lat"`
	LocationLng     sql.NullFloat64 `db:"location_lng"`
	CurrentCity     string          `db:"current_city"`
	TravelStyles    pq.StringArray  `db:"travel_styles"`
	Interests       pq.StringArray  `db:"interests"`
	NextDestination string          `db:"next_destination"`
	TravelDates     string          `db:"travel_dates"`
	IsVerified      bool            `db:"is_verified"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

func (r profileRow) toProfile() (*Profile, error) {
	p := &Profile{
		ID:              r.ID,
		DisplayName:     r.DisplayName,
		Age:             r.Age,
		Bio:             r.Bio,
		CurrentCity:     r.CurrentCity,
		TravelStyles:    r.TravelStyles,
		Interests:       r.Interests,
		NextDestination: r.NextDestination,
		TravelDates:     r.TravelDates,
		IsVerified:      r.IsVerified,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}

	switch {
	case r.LocationLat.Valid && r.LocationLng.Valid:
		p.Location = &Coordinates{Latitude: r.LocationLat.Float64, Longitude: r.LocationLng.Float64}
	case r.LocationLat.Valid != r.LocationLng.Valid:
		return nil, fmt.Errorf("%w: profile %s has a half-set coordinate pair", ErrInvalidProfile, r.ID)
	}

	return p, nil
}

const profileColumns = `
	id, display_name, age, bio, location_lat, location_lng, current_city,
	travel_styles, interests, next_destination, travel_dates, is_verified,
	created_at, updated_at
`

func (r *postgresRepository) GetProfile(ctx context.Context, id string) (*Profile, error) {
	var row profileRow
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return row.toProfile()
}

// FindCandidates does a coarse SQL pre-selection; the precise constraint
// checks (style overlap, destination substrings, exact distance) stay in
// the in-process filter where they are unit-testable.
func (r *postgresRepository) FindCandidates(ctx context.Context, userID string, filters *FilterSettings, limit int) ([]*Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE id != $1
		  AND ($2 = 0 OR age >= $2)
		  AND ($3 = 0 OR age <= $3)
		  AND (NOT $4 OR is_verified)
		  AND id NOT IN (
		      SELECT target_id FROM swipes WHERE user_id = $1
		  )
		ORDER BY updated_at DESC
		LIMIT $5
	`

	minAge, maxAge, verifiedOnly := 0, 0, false
	if filters != nil {
		minAge, maxAge, verifiedOnly = filters.MinAge, filters.MaxAge, filters.VerifiedOnly
	}

	rows, err := r.db.QueryxContext(ctx, query, userID, minAge, maxAge, verifiedOnly, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		var row profileRow
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		profile, err := row.toProfile()
		if err != nil {
			// one malformed row must not sink the batch
			continue
		}
		profiles = append(profiles, profile)
	}

	return profiles, rows.Err()
}

func (r *postgresRepository) GetActiveUserIDs(ctx context.Context, days int) ([]string, error) {
	var ids []string
	query := `SELECT id FROM profiles WHERE updated_at > NOW() - ($1 || ' days')::interval`

	err := r.db.SelectContext(ctx, &ids, query, days)
	return ids, err
}

func (r *postgresRepository) GetInteractionHistory(ctx context.Context, userID string) (*InteractionHistory, error) {
	history := &InteractionHistory{
		UserID:            userID,
		Decisions:         map[string]string{},
		MutualMatches:     map[string]bool{},
		ConversationDepth: map[string]float64{},
	}

	rows, err := r.db.QueryxContext(ctx,
		`SELECT target_id, decision FROM swipes WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var targetID, decision string
		if err := rows.Scan(&targetID, &decision); err != nil {
			return nil, err
		}
		history.Decisions[targetID] = decision
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// mutual matches: both sides swiped positive
	mutualQuery := `
		SELECT a.target_id
		FROM swipes a
		JOIN swipes b ON b.user_id = a.target_id AND b.target_id = a.user_id
		WHERE a.user_id = $1 AND a.decision = 'positive' AND b.decision = 'positive'
	`
	var mutuals []string
	if err := r.db.SelectContext(ctx, &mutuals, mutualQuery, userID); err != nil {
		return nil, err
	}
	for _, id := range mutuals {
		history.MutualMatches[id] = true
	}

	depthQuery := `
		SELECT other_id, intensity FROM conversation_intensity WHERE user_id = $1
	`
	depthRows, err := r.db.QueryxContext(ctx, depthQuery, userID)
	if err != nil {
		return nil, err
	}
	defer depthRows.Close()

	for depthRows.Next() {
		var otherID string
		var intensity float64
		if err := depthRows.Scan(&otherID, &intensity); err != nil {
			return nil, err
		}
		history.ConversationDepth[otherID] = intensity
	}

	return history, depthRows.Err()
}

func (r *postgresRepository) RecordSwipe(ctx context.Context, userID, targetID, decision string) error {
	query := `
		INSERT INTO swipes (user_id, target_id, decision)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, target_id)
		DO UPDATE SET decision = $3, updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.ExecContext(ctx, query, userID, targetID, decision)
	return err
}

func (r *postgresRepository) LoadRatings(ctx context.Context) (map[string]float64, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT user_id, rating FROM quality_ratings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := make(map[string]float64)
	for rows.Next() {
		var userID string
		var rating float64
		if err := rows.Scan(&userID, &rating); err != nil {
			return nil, err
		}
		ratings[userID] = rating
	}

	return ratings, rows.Err()
}

func (r *postgresRepository) SaveRating(ctx context.Context, userID string, rating float64) error {
	query := `
		INSERT INTO quality_ratings (user_id, rating)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET rating = $2, updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.ExecContext(ctx, query, userID, rating)
	return err
}
