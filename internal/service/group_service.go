package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/tallyhq/tally/internal/apperr"
	"github.com/tallyhq/tally/internal/balance"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/storage"
)

// GroupService handles group creation, membership and detail reads.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// Create makes a new group owned by ownerID, who becomes the sole initial
// member. Group names are unique case-insensitively across all groups.
func (s *GroupService) Create(ctx context.Context, ownerID, name string, description *string) (*models.GroupDetail, error) {
	if _, err := s.store.FindUserByID(ctx, ownerID); err != nil {
		return nil, err
	}

	group := &models.Group{
		Name:        strings.TrimSpace(name),
		OwnerID:     ownerID,
		Description: description,
		MemberIDs:   []string{ownerID},
	}
	if err := s.store.InsertGroup(ctx, group); err != nil {
		slog.WarnContext(ctx, "group creation failed", "name", group.Name, "error", err)
		return nil, err
	}
	slog.InfoContext(ctx, "group created", "group_id", group.ID, "name", group.Name, "owner_id", ownerID)
	return s.Get(ctx, group.ID)
}

// Get returns the full group view: members, ledger and balances recomputed
// from scratch.
func (s *GroupService) Get(ctx context.Context, id string) (*models.GroupDetail, error) {
	group, err := s.store.FindGroupByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.compose(ctx, group)
}

// ListForUser returns the groups the user belongs to, sorted by name. The
// user must exist even when the result is empty.
func (s *GroupService) ListForUser(ctx context.Context, userID string) ([]models.GroupSummary, error) {
	if _, err := s.store.FindUserByID(ctx, userID); err != nil {
		return nil, err
	}
	groups, err := s.store.ListGroupsForMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.GroupSummary, 0, len(groups))
	for i := range groups {
		summaries = append(summaries, summaryOf(&groups[i]))
	}
	return summaries, nil
}

// AddMember enrolls the user with the given email. Only the owner may add
// members; adding an already-present member is a no-op success.
func (s *GroupService) AddMember(ctx context.Context, groupID, requesterID, userEmail string) (*models.GroupDetail, error) {
	group, err := s.store.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.OwnerID != requesterID {
		slog.WarnContext(ctx, "member add denied", "group_id", groupID, "requester_id", requesterID)
		return nil, apperr.ErrGroupOwnership
	}
	user, err := s.store.FindUserByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	if err := s.store.AddMember(ctx, groupID, user.ID); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "member added", "group_id", groupID, "user_id", user.ID)
	return s.Get(ctx, groupID)
}

// compose assembles the GroupDetail: resolved members, resolved expenses and
// freshly computed balances.
func (s *GroupService) compose(ctx context.Context, group *models.Group) (*models.GroupDetail, error) {
	members := make([]models.GroupMember, 0, len(group.MemberIDs))
	users := make(map[string]*models.User, len(group.MemberIDs))
	for _, memberID := range group.MemberIDs {
		user, err := s.store.FindUserByID(ctx, memberID)
		if err != nil {
			// A membership pointing at a vanished user is skipped, not fatal.
			if errors.Is(err, apperr.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		users[memberID] = user
		members = append(members, models.GroupMember{ID: user.ID, Name: user.Name, Email: user.Email})
	}

	expenses := make([]models.ExpenseDetail, 0, len(group.Expenses))
	for _, expense := range group.Expenses {
		payerName, payerEmail := "Unknown", "unknown@example.com"
		if user, ok := users[expense.PayerID]; ok {
			payerName, payerEmail = user.Name, user.Email
		} else if user, err := s.store.FindUserByID(ctx, expense.PayerID); err == nil {
			payerName, payerEmail = user.Name, user.Email
		}
		expenses = append(expenses, models.ExpenseDetail{
			ID:         expense.ID,
			GroupID:    group.ID,
			PayerID:    expense.PayerID,
			PayerName:  payerName,
			PayerEmail: payerEmail,
			Amount:     expense.Amount,
			Note:       expense.Note,
			Status:     expense.Status,
			CreatedAt:  expense.CreatedAt,
		})
	}

	balances, total := balance.Compute(members, group.Expenses)
	return &models.GroupDetail{
		GroupSummary: summaryOf(group),
		Members:      members,
		Expenses:     expenses,
		TotalExpense: total,
		Balances:     balances,
	}, nil
}

func summaryOf(group *models.Group) models.GroupSummary {
	return models.GroupSummary{
		ID:          group.ID,
		Name:        group.Name,
		OwnerID:     group.OwnerID,
		Description: group.Description,
		CreatedAt:   group.CreatedAt,
		MemberCount: len(group.MemberIDs),
	}
}
