package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/AnkitRegmi1/TruSwap/internal/clock"
	"github.com/AnkitRegmi1/TruSwap/internal/domain"
)

type GroupRepository interface {
	CreateGroup(ctx context.Context, group domain.Group) error
	GetGroup(ctx context.Context, id string) (domain.Group, error)
	ListGroups(ctx context.Context) ([]domain.Group, error)
	ListByCreator(ctx context.Context, createdBy string) ([]domain.Group, error)
}

type GroupService struct {
	repo  GroupRepository
	clock clock.Clock
}

func NewGroupService(repo GroupRepository, clk clock.Clock) *GroupService {
	return &GroupService{
		repo:  repo,
		clock: clk,
	}
}

type CreateGroupInput struct {
	Name         string
	Description  string
	CreatedBy    string
	CreatorName  string
	CreatorEmail string
}

func (s *GroupService) CreateGroup(ctx context.Context, in CreateGroupInput) (domain.Group, error) {
	if in.Name == "" {
		return domain.Group{}, domain.ErrGroupNameRequired
	}

	creatorName := in.CreatorName
	if creatorName == "" {
		creatorName = "User"
	}

	group := domain.Group{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Description:  in.Description,
		CreatedBy:    in.CreatedBy,
		CreatorName:  creatorName,
		CreatorEmail: in.CreatorEmail,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.repo.CreateGroup(ctx, group); err != nil {
		return domain.Group{}, err
	}
	return group, nil
}

func (s *GroupService) ListGroups(ctx context.Context) ([]domain.Group, error) {
	return s.repo.ListGroups(ctx)
}

func (s *GroupService) GetGroup(ctx context.Context, id string) (domain.Group, error) {
	return s.repo.GetGroup(ctx, id)
}

func (s *GroupService) MyGroups(ctx context.Context, createdBy string) ([]domain.Group, error) {
	return s.repo.ListByCreator(ctx, createdBy)
}
