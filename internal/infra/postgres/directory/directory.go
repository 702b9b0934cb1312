package infra_postgres_directory

import (
	"context"

	"github.com/humanbelnik/movienight/core/internal/model"
	"github.com/jmoiron/sqlx"
)

type Driver struct {
	db *sqlx.DB
}

func New(
	db *sqlx.DB,
) *Driver {
	return &Driver{db: db}
}

// ListMembers returns the group's linked accounts in the order the members
// joined the group.
func (d *Driver) ListMembers(ctx context.Context, groupID string) ([]model.Account, error) {
	query := `
		SELECT u.member, u.account
		FROM memberships m
		JOIN users u ON u.member = m.member
		WHERE m.guild = $1
		ORDER BY m.id
	`

	accounts := []model.Account{}
	if err := d.db.SelectContext(ctx, &accounts, query, groupID); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Link stores or replaces the profile account of a member.
func (d *Driver) Link(ctx context.Context, account model.Account) error {
	query := `
		INSERT INTO users (member, account)
		VALUES (:member, :account)
		ON CONFLICT (member) DO UPDATE SET account = EXCLUDED.account
	`

	_, err := d.db.NamedExecContext(ctx, query, account)
	return err
}

// Join adds a member to a group. Joining twice keeps the original position.
func (d *Driver) Join(ctx context.Context, groupID string, person string) error {
	query := `
		INSERT INTO memberships (member, guild)
		VALUES ($1, $2)
		ON CONFLICT (member, guild) DO NOTHING
	`

	_, err := d.db.ExecContext(ctx, query, person, groupID)
	return err
}
