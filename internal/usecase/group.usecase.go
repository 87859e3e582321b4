package usecase

import (
	"context"

	"connect-service/internal/domain"
	"connect-service/internal/events"
	xerrors "connect-service/pkg/xerrors"

	"go.uber.org/zap"
)

type GroupUsecase struct {
	groups GroupRegistry
	sink   EventSink
	idGen  IDGenerator
	logger *zap.Logger
}

func NewGroupUsecase(groups GroupRegistry, sink EventSink, idGen IDGenerator, logger *zap.Logger) *GroupUsecase {
	return &GroupUsecase{
		groups: groups,
		sink:   sink,
		idGen:  idGen,
		logger: logger,
	}
}

func validateGroupFields(name, description string) error {
	if name == "" {
		return xerrors.NewValidationError("name")
	}
	if len(name) > domain.GroupNameMaxLen {
		return xerrors.ErrGroupNameTooLong
	}
	if len(description) > domain.GroupDescriptionMaxLen {
		return xerrors.ErrGroupDescriptionTooLong
	}
	return nil
}

// Create makes the caller the group's first member and sole admin.
func (uc *GroupUsecase) Create(ctx context.Context, callerID, name, description string) (*domain.Group, error) {
	if err := validateGroupFields(name, description); err != nil {
		return nil, err
	}

	g := &domain.Group{
		ID:          uc.idGen.Generate("grp"),
		Name:        name,
		Description: description,
		CreatedBy:   callerID,
	}
	if err := uc.groups.Create(ctx, g); err != nil {
		return nil, err
	}

	uc.notify(ctx, "group.created", g.ID, callerID, "")
	return uc.groups.GetByID(ctx, g.ID)
}

func (uc *GroupUsecase) List(ctx context.Context) ([]*domain.Group, error) {
	return uc.groups.List(ctx)
}

func (uc *GroupUsecase) Get(ctx context.Context, id string) (*domain.Group, error) {
	return uc.groups.GetByID(ctx, id)
}

func (uc *GroupUsecase) Join(ctx context.Context, callerID, groupID string) (*domain.Group, error) {
	g, err := uc.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g.IsMember(callerID) {
		return nil, xerrors.ErrAlreadyMember
	}

	if err := uc.groups.AddMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}

	uc.notify(ctx, "group.member_joined", groupID, callerID, "")
	return uc.groups.GetByID(ctx, groupID)
}

// Leave removes the caller from members and admins both. A leaving admin is
// not replaced; a group can end up admin-less, which matches the product's
// current behaviour.
func (uc *GroupUsecase) Leave(ctx context.Context, callerID, groupID string) (*domain.Group, error) {
	g, err := uc.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !g.IsMember(callerID) {
		return nil, xerrors.ErrNotAMember
	}

	if err := uc.groups.RemoveMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}

	uc.notify(ctx, "group.member_left", groupID, callerID, "")
	return uc.groups.GetByID(ctx, groupID)
}

// Update overwrites name/description when provided. Admin only.
func (uc *GroupUsecase) Update(ctx context.Context, callerID, groupID string, name, description *string) (*domain.Group, error) {
	g, err := uc.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !g.IsAdmin(callerID) {
		return nil, xerrors.ErrNotGroupAdmin
	}

	if name != nil {
		g.Name = *name
	}
	if description != nil {
		g.Description = *description
	}
	if err := validateGroupFields(g.Name, g.Description); err != nil {
		return nil, err
	}

	if err := uc.groups.Update(ctx, g); err != nil {
		return nil, err
	}

	uc.notify(ctx, "group.updated", groupID, callerID, "")
	return uc.groups.GetByID(ctx, groupID)
}

func (uc *GroupUsecase) Delete(ctx context.Context, callerID, groupID string) error {
	g, err := uc.groups.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if !g.IsAdmin(callerID) {
		return xerrors.ErrNotGroupAdmin
	}

	if err := uc.groups.Delete(ctx, groupID); err != nil {
		return err
	}

	uc.notify(ctx, "group.deleted", groupID, callerID, "")
	uc.logger.Info("group deleted",
		zap.String("group_id", groupID),
		zap.String("actor_id", callerID))
	return nil
}

// RemoveMember ejects another member. Admins use Leave for themselves; the
// self-removal path is rejected so an admin cannot eject themselves by
// accident and strand the group.
func (uc *GroupUsecase) RemoveMember(ctx context.Context, callerID, groupID, targetID string) (*domain.Group, error) {
	g, err := uc.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !g.IsAdmin(callerID) {
		return nil, xerrors.ErrNotGroupAdmin
	}
	if targetID == callerID {
		return nil, xerrors.ErrSelfRemoval
	}
	if !g.IsMember(targetID) {
		return nil, xerrors.ErrNotAMember
	}

	if err := uc.groups.RemoveMember(ctx, groupID, targetID); err != nil {
		return nil, err
	}

	uc.notify(ctx, "group.member_removed", groupID, callerID, targetID)
	return uc.groups.GetByID(ctx, groupID)
}

func (uc *GroupUsecase) notify(ctx context.Context, eventType, groupID, actorID, targetID string) {
	if uc.sink == nil {
		return
	}
	err := uc.sink.PublishGroupEvent(ctx, &events.GroupEvent{
		EventType: eventType,
		GroupID:   groupID,
		ActorID:   actorID,
		TargetID:  targetID,
	})
	if err != nil {
		uc.logger.Warn("group event publish failed",
			zap.String("group_id", groupID),
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}
