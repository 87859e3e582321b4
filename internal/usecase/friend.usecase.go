package usecase

import (
	"context"
	"errors"

	"connect-service/internal/domain"
	"connect-service/internal/events"
	xerrors "connect-service/pkg/xerrors"

	"go.uber.org/zap"
)

type FriendUsecase struct {
	users    UserDirectory
	requests FriendRequestLedger
	sink     EventSink
	idGen    IDGenerator
	logger   *zap.Logger
}

func NewFriendUsecase(users UserDirectory, requests FriendRequestLedger, sink EventSink, idGen IDGenerator, logger *zap.Logger) *FriendUsecase {
	return &FriendUsecase{
		users:    users,
		requests: requests,
		sink:     sink,
		idGen:    idGen,
		logger:   logger,
	}
}

// SendRequest records a pending request from caller to recipient. The
// duplicate check covers both directions and any status; the pair unique
// index closes the window between check and insert.
func (uc *FriendUsecase) SendRequest(ctx context.Context, callerID, recipientID string) (*domain.FriendRequest, error) {
	if callerID == recipientID {
		return nil, xerrors.ErrSelfRequest
	}

	recipient, err := uc.users.GetUserByID(ctx, recipientID)
	if err != nil {
		if errors.Is(err, xerrors.ErrUserNotFound) {
			return nil, xerrors.ErrRecipientNotFound
		}
		return nil, err
	}

	friends, err := uc.users.AreFriends(ctx, recipient.ID, callerID)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, xerrors.ErrAlreadyFriends
	}

	exists, err := uc.requests.ExistsBetween(ctx, callerID, recipientID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, xerrors.ErrDuplicateRequest
	}

	fr := &domain.FriendRequest{
		ID:          uc.idGen.Generate("frq"),
		SenderID:    callerID,
		RecipientID: recipientID,
		Status:      domain.FriendRequestPending,
	}
	if err := uc.requests.Create(ctx, fr); err != nil {
		return nil, err
	}

	uc.notify(ctx, fr, false)
	return fr, nil
}

// AcceptRequest flips the ledger row to accepted, then writes the symmetric
// friends projection. Ledger first; the projection write is idempotent, so a
// crash between the two converges on retry.
func (uc *FriendUsecase) AcceptRequest(ctx context.Context, callerID, requestID string) (*domain.FriendRequest, error) {
	fr, err := uc.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if fr.RecipientID != callerID {
		return nil, xerrors.ErrNotRecipient
	}
	if fr.Status == domain.FriendRequestAccepted {
		// An earlier accept may have stopped between the ledger write and
		// the projection write. The projection insert is idempotent, so
		// repair it before reporting the conflict.
		if err := uc.users.AddFriendship(ctx, fr.SenderID, fr.RecipientID); err != nil {
			return nil, err
		}
		return nil, xerrors.ErrAlreadyAccepted
	}

	if err := uc.requests.MarkAccepted(ctx, fr.ID); err != nil {
		if errors.Is(err, xerrors.ErrAlreadyAccepted) {
			// Lost the race to a concurrent accept; same repair applies.
			if ferr := uc.users.AddFriendship(ctx, fr.SenderID, fr.RecipientID); ferr != nil {
				return nil, ferr
			}
		}
		return nil, err
	}
	fr.Status = domain.FriendRequestAccepted

	if err := uc.users.AddFriendship(ctx, fr.SenderID, fr.RecipientID); err != nil {
		return nil, err
	}

	uc.notify(ctx, fr, true)
	uc.logger.Info("friend request accepted",
		zap.String("request_id", fr.ID),
		zap.String("sender_id", fr.SenderID),
		zap.String("recipient_id", fr.RecipientID))
	return fr, nil
}

func (uc *FriendUsecase) ListIncoming(ctx context.Context, callerID string) ([]*domain.FriendRequest, error) {
	return uc.requests.ListIncoming(ctx, callerID)
}

func (uc *FriendUsecase) ListOutgoing(ctx context.Context, callerID string) ([]*domain.FriendRequest, error) {
	return uc.requests.ListOutgoingPending(ctx, callerID)
}

func (uc *FriendUsecase) ListAcceptedSent(ctx context.Context, callerID string) ([]*domain.FriendRequest, error) {
	return uc.requests.ListAcceptedSent(ctx, callerID)
}

func (uc *FriendUsecase) ListFriends(ctx context.Context, callerID string) ([]domain.PublicProfile, error) {
	return uc.users.ListFriends(ctx, callerID)
}

func (uc *FriendUsecase) Recommend(ctx context.Context, callerID string) ([]domain.PublicProfile, error) {
	return uc.users.RecommendUsers(ctx, callerID)
}

func (uc *FriendUsecase) notify(ctx context.Context, fr *domain.FriendRequest, accepted bool) {
	if uc.sink == nil {
		return
	}
	event := &events.FriendRequestEvent{
		RequestID:   fr.ID,
		SenderID:    fr.SenderID,
		RecipientID: fr.RecipientID,
	}
	var err error
	if accepted {
		err = uc.sink.PublishFriendRequestAccepted(ctx, event)
	} else {
		err = uc.sink.PublishFriendRequestSent(ctx, event)
	}
	if err != nil {
		uc.logger.Warn("friend event publish failed",
			zap.String("request_id", fr.ID),
			zap.Error(err))
	}
}
