package memberrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/steelcity-drags/roster-api/internal/adapters/postgres"
	"github.com/steelcity-drags/roster-api/internal/domain"
	"github.com/steelcity-drags/roster-api/internal/ports/out/memberrepo"
)

// Repo is a Postgres implementation of memberrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const memberColumns = `
	id,
	member_number,
	name,
	address,
	suburb,
	postcode,
	state,
	phone1,
	phone2,
	email1,
	email2,
	life_member,
	financial,
	membership_type,
	family_members,
	interest,
	date_paid,
	expiry_date,
	comments,
	receive_emails,
	receive_sms,
	created_at,
	updated_at
`

func (r *Repo) Create(ctx context.Context, m memberrepo.Member) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	id, err := uuid.Parse(string(m.ID))
	if err != nil {
		return fmt.Errorf("invalid member id: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO members (`+memberColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
	`, memberArgs(id, m)...)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			switch pe.ConstraintName {
			case "members_member_number_unique":
				return memberrepo.ErrMemberNumberTaken
			case "members_pkey":
				return memberrepo.ErrAlreadyExists
			}
		}
		return err
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, m memberrepo.Member) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	id, err := uuid.Parse(string(m.ID))
	if err != nil {
		return memberrepo.ErrNotFound
	}

	ct, err := r.pool.Exec(ctx, `
		UPDATE members
		SET member_number = $2,
		    name = $3,
		    address = $4,
		    suburb = $5,
		    postcode = $6,
		    state = $7,
		    phone1 = $8,
		    phone2 = $9,
		    email1 = $10,
		    email2 = $11,
		    life_member = $12,
		    financial = $13,
		    membership_type = $14,
		    family_members = $15,
		    interest = $16,
		    date_paid = $17,
		    expiry_date = $18,
		    comments = $19,
		    receive_emails = $20,
		    receive_sms = $21,
		    updated_at = $22
		WHERE id = $1
	`, updateArgs(id, m)...)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return memberrepo.ErrMemberNumberTaken
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return memberrepo.ErrNotFound
	}
	return nil
}

// Delete removes the member; the vehicles foreign key cascades.
func (r *Repo) Delete(ctx context.Context, id domain.MemberID) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return memberrepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM members WHERE id = $1`, uid)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return memberrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.MemberID) (memberrepo.Member, error) {
	if r.pool == nil {
		return memberrepo.Member{}, postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return memberrepo.Member{}, memberrepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, uid)
	return scanMember(row)
}

func (r *Repo) GetByMemberNumber(ctx context.Context, number string) (memberrepo.Member, error) {
	if r.pool == nil {
		return memberrepo.Member{}, postgres.ErrNilPool
	}
	if number == "" {
		return memberrepo.Member{}, memberrepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE member_number = $1`, number)
	return scanMember(row)
}

func (r *Repo) List(ctx context.Context, q memberrepo.ListQuery) ([]memberrepo.Member, error) {
	if r.pool == nil {
		return nil, postgres.ErrNilPool
	}

	where := ""
	args := []any{}
	switch needle := strings.TrimSpace(q.Search); {
	case q.MemberNumber != "":
		where = "WHERE member_number = $1"
		args = append(args, q.MemberNumber)
	case needle != "":
		where = `WHERE lower(name) LIKE $1 OR lower(coalesce(email1, '')) LIKE $1 OR lower(coalesce(email2, '')) LIKE $1`
		args = append(args, "%"+escapeLike(strings.ToLower(needle))+"%")
	}

	rows, err := r.pool.Query(ctx, `SELECT `+memberColumns+` FROM members `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]memberrepo.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Member numbers mix digits and text; SQL collation cannot express the ordering.
	memberrepo.SortByMemberNumber(out)
	return out, nil
}

func (r *Repo) ListSuburbs(ctx context.Context) ([]string, error) {
	if r.pool == nil {
		return nil, postgres.ErrNilPool
	}
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT ON (lower(btrim(suburb))) btrim(suburb)
		FROM members
		WHERE btrim(suburb) <> ''
		ORDER BY lower(btrim(suburb)) ASC, btrim(suburb) ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// --- helpers ---

func memberArgs(id uuid.UUID, m memberrepo.Member) []any {
	family := m.FamilyMembers
	if family == nil {
		family = []string{}
	}
	return []any{
		id,
		m.MemberNumber,
		m.Name,
		m.Address,
		m.Suburb,
		m.Postcode,
		m.State,
		m.Phone1,
		m.Phone2,
		m.Email1,
		m.Email2,
		m.LifeMember,
		m.Financial,
		string(m.MembershipType),
		family,
		string(m.Interest),
		m.DatePaid,
		m.ExpiryDate,
		m.Comments,
		m.ReceiveEmails,
		m.ReceiveSMS,
		m.CreatedAt.UTC(),
		m.UpdatedAt.UTC(),
	}
}

// updateArgs drops created_at, which never changes after insert.
func updateArgs(id uuid.UUID, m memberrepo.Member) []any {
	args := memberArgs(id, m)
	return append(args[:21:21], args[22])
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanMember(row pgx.Row) (memberrepo.Member, error) {
	var (
		id             uuid.UUID
		m              memberrepo.Member
		membershipType string
		interest       string
		createdAt      time.Time
		updatedAt      time.Time
	)
	if err := row.Scan(
		&id,
		&m.MemberNumber,
		&m.Name,
		&m.Address,
		&m.Suburb,
		&m.Postcode,
		&m.State,
		&m.Phone1,
		&m.Phone2,
		&m.Email1,
		&m.Email2,
		&m.LifeMember,
		&m.Financial,
		&membershipType,
		&m.FamilyMembers,
		&interest,
		&m.DatePaid,
		&m.ExpiryDate,
		&m.Comments,
		&m.ReceiveEmails,
		&m.ReceiveSMS,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return memberrepo.Member{}, memberrepo.ErrNotFound
		}
		return memberrepo.Member{}, err
	}
	m.ID = domain.MemberID(id.String())
	m.MembershipType = domain.MembershipType(membershipType)
	m.Interest = domain.Interest(interest)
	if len(m.FamilyMembers) == 0 {
		m.FamilyMembers = nil
	}
	m.DatePaid = utcDate(m.DatePaid)
	m.ExpiryDate = utcDate(m.ExpiryDate)
	m.CreatedAt = createdAt.UTC()
	m.UpdatedAt = updatedAt.UTC()
	return m, nil
}

func utcDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
