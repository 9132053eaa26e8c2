package repository

import (
	"context"
	"database/sql"
	"fmt"

	"lastleaf-be/internal/database"
	"lastleaf-be/internal/entities"
)

// ContactInput is one contact to store. Nil fields are stored as NULL.
type ContactInput struct {
	Email *string
	Phone *string
}

// ContactRepository defines the interface for emergency contact operations
type ContactRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*entities.Contact, error)
	ReplaceAll(ctx context.Context, userID string, contacts []ContactInput) ([]*entities.Contact, error)
}

type contactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *sql.DB) ContactRepository {
	return &contactRepository{db: db}
}

const contactColumns = `id, user_id, email, phone, position, created_at`

func scanContact(row rowScanner) (*entities.Contact, error) {
	var contact entities.Contact
	err := row.Scan(&contact.ID, &contact.UserID, &contact.Email, &contact.Phone, &contact.Position, &contact.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE user_id = $1
		ORDER BY position ASC, created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []*entities.Contact{}
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}

	return contacts, nil
}

// ReplaceAll deletes every contact of the user and inserts the given list
// in one transaction, so a failed insert leaves the previous list intact.
func (r *contactRepository) ReplaceAll(ctx context.Context, userID string, contacts []ContactInput) ([]*entities.Contact, error) {
	saved := make([]*entities.Contact, 0, len(contacts))

	err := database.WithTx(ctx, r.db, func(ctx context.Context, tx database.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM contacts WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("failed to delete contacts: %w", err)
		}

		query := `
			INSERT INTO contacts (user_id, email, phone, position)
			VALUES ($1, $2, $3, $4)
			RETURNING ` + contactColumns

		for i, c := range contacts {
			contact, err := scanContact(tx.QueryRowContext(ctx, query, userID, c.Email, c.Phone, i))
			if err != nil {
				return fmt.Errorf("failed to insert contact: %w", err)
			}
			saved = append(saved, contact)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return saved, nil
}
