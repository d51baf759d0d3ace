package content

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/content"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/caching/interfaces"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/logging"
)

type MemberRepository struct {
	db     *sql.DB
	cache  interfaces.ContentCache
	logger *logging.ChanneledLogger
}

func NewMemberRepository(db *sql.DB, cache interfaces.ContentCache, logger *logging.ChanneledLogger) *MemberRepository {
	return &MemberRepository{
		db:     db,
		cache:  cache,
		logger: logger,
	}
}

func (r *MemberRepository) FindByID(id string) (*content.MemberNode, error) {
	if member, found := r.cache.GetMember(id); found {
		return member, nil
	}

	member, err := r.loadFromDB(id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, nil
	}

	r.cache.SetMember(member)
	return member, nil
}

func (r *MemberRepository) FindByEmail(email string) (*content.MemberNode, error) {
	if id, found := r.cache.GetMemberIDByEmail(email); found {
		return r.FindByID(id)
	}

	member, err := r.loadByEmailFromDB(email)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, nil
	}

	r.cache.SetMember(member)
	return member, nil
}

func (r *MemberRepository) FindAll() ([]*content.MemberNode, error) {
	if ids, found := r.cache.GetAllMemberIDs(); found {
		return r.findByIDs(ids)
	}

	ids, err := r.loadAllIDsFromDB()
	if err != nil {
		return nil, err
	}

	members, err := r.loadMultipleFromDB(ids)
	if err != nil {
		return nil, err
	}

	for _, member := range members {
		r.cache.SetMember(member)
	}
	r.cache.SetAllMemberIDs(ids)

	return members, nil
}

func (r *MemberRepository) Store(member *content.MemberNode) error {
	query := `INSERT INTO members (id, email, first_name, role, bio, created, changed)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	defer timeQuery(r.logger, query, time.Now())

	_, err := r.db.Exec(query, member.ID, member.Email, member.FirstName,
		member.Role, member.Bio, member.Created, member.Changed)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}

	r.cache.SetMember(member)
	r.cache.AddMemberID(member.ID)
	return nil
}

func (r *MemberRepository) Update(member *content.MemberNode) error {
	query := `UPDATE members SET email = ?, first_name = ?, role = ?, bio = ?, changed = ? WHERE id = ?`
	defer timeQuery(r.logger, query, time.Now())

	_, err := r.db.Exec(query, member.Email, member.FirstName, member.Role,
		member.Bio, member.Changed, member.ID)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}

	r.cache.InvalidateMember(member.ID)
	r.cache.SetMember(member)
	return nil
}

func (r *MemberRepository) Delete(id string) error {
	query := `DELETE FROM members WHERE id = ?`
	defer timeQuery(r.logger, query, time.Now())

	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}

	r.cache.InvalidateMember(id)
	r.cache.RemoveMemberID(id)
	return nil
}

func (r *MemberRepository) findByIDs(ids []string) ([]*content.MemberNode, error) {
	var result []*content.MemberNode
	var missingIDs []string

	for _, id := range ids {
		if member, found := r.cache.GetMember(id); found {
			result = append(result, member)
		} else {
			missingIDs = append(missingIDs, id)
		}
	}

	if len(missingIDs) > 0 {
		missing, err := r.loadMultipleFromDB(missingIDs)
		if err != nil {
			return nil, err
		}
		for _, member := range missing {
			r.cache.SetMember(member)
			result = append(result, member)
		}
	}

	return result, nil
}

func (r *MemberRepository) loadAllIDsFromDB() ([]string, error) {
	query := `SELECT id FROM members ORDER BY created`
	defer timeQuery(r.logger, query, time.Now())

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var memberIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member ID: %w", err)
		}
		memberIDs = append(memberIDs, id)
	}

	return memberIDs, rows.Err()
}

const memberColumns = `id, email, first_name, role, bio, created, changed`

func (r *MemberRepository) loadFromDB(id string) (*content.MemberNode, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = ?`
	defer timeQuery(r.logger, query, time.Now())
	return scanMember(r.db.QueryRow(query, id))
}

func (r *MemberRepository) loadByEmailFromDB(email string) (*content.MemberNode, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE email = ?`
	defer timeQuery(r.logger, query, time.Now())
	return scanMember(r.db.QueryRow(query, email))
}

func (r *MemberRepository) loadMultipleFromDB(ids []string) ([]*content.MemberNode, error) {
	if len(ids) == 0 {
		return []*content.MemberNode{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := `SELECT ` + memberColumns + ` FROM members WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	defer timeQuery(r.logger, query, time.Now())

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []*content.MemberNode
	for rows.Next() {
		member, err := scanMemberRow(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	return members, rows.Err()
}

func scanMember(row *sql.Row) (*content.MemberNode, error) {
	member, err := scanMemberRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return member, err
}

func scanMemberRow(s rowScanner) (*content.MemberNode, error) {
	var member content.MemberNode
	var bio sql.NullString
	var changed sql.NullTime

	err := s.Scan(&member.ID, &member.Email, &member.FirstName, &member.Role,
		&bio, &member.Created, &changed)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan member: %w", err)
	}

	if bio.Valid {
		member.Bio = bio.String
	}
	if changed.Valid {
		changedAt := changed.Time
		member.Changed = &changedAt
	}

	member.NodeType = "Member"
	return &member, nil
}
