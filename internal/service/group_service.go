package service

import (
	"errors"
	"time"

	"github.com/talkboard/talkboard-backend/internal/common"
	"github.com/talkboard/talkboard-backend/internal/domain"
	"github.com/talkboard/talkboard-backend/internal/repository"
)

// GroupService implements group administration and the invitation
// lifecycle.
type GroupService interface {
	GetGroup(actor *domain.Actor, groupID uint64) (*domain.Group, error)
	CreateGroup(actor *domain.Actor, req *domain.CreateGroupRequest) (*domain.Group, error)
	DeleteGroup(actor *domain.Actor, groupID uint64) error
	AddMember(actor *domain.Actor, groupID, userID uint64) error
	RemoveMember(actor *domain.Actor, groupID, userID uint64) error
	GrantAdmin(actor *domain.Actor, groupID, userID uint64) error

	ListInvitations(actor *domain.Actor) ([]domain.Invitation, error)
	Invite(actor *domain.Actor, groupID uint64, req *domain.InviteRequest) (*domain.Invitation, error)
	AnswerInvitation(actor *domain.Actor, invitationID uint64, accept bool) error
	CancelInvitation(actor *domain.Actor, invitationID uint64) error
}

type groupService struct {
	groups      repository.GroupRepository
	invitations repository.InvitationRepository
	members     repository.MemberRepository
	notify      *NotifyService
}

// NewGroupService creates a new GroupService
func NewGroupService(
	groups repository.GroupRepository,
	invitations repository.InvitationRepository,
	members repository.MemberRepository,
	notify *NotifyService,
) GroupService {
	return &groupService{
		groups:      groups,
		invitations: invitations,
		members:     members,
		notify:      notify,
	}
}

func (s *groupService) loadGroup(groupID uint64) (*domain.Group, error) {
	group, err := s.groups.FindByID(groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, common.ErrGroupNotFound
	}
	return group, nil
}

// canAdminister reports whether the actor administers the group. Site
// staff administer every group.
func (s *groupService) canAdminister(actor *domain.Actor, groupID uint64) (bool, error) {
	if actor.IsStaff() {
		return true, nil
	}
	if !actor.IsAuthenticated() {
		return false, nil
	}
	return s.groups.HasAdmin(groupID, actor.ID)
}

// GetGroup returns a group with its member sets. Visible to its admins,
// its members and staff.
func (s *groupService) GetGroup(actor *domain.Actor, groupID uint64) (*domain.Group, error) {
	group, err := s.loadGroup(groupID)
	if err != nil {
		return nil, err
	}
	if actor.IsStaff() {
		return group, nil
	}
	if actor.IsAuthenticated() && (group.HasAdmin(actor.ID) || group.HasUser(actor.ID)) {
		return group, nil
	}
	return nil, common.ErrPermissionDenied
}

// CreateGroup creates a group with the caller as its first admin and
// member.
func (s *groupService) CreateGroup(actor *domain.Actor, req *domain.CreateGroupRequest) (*domain.Group, error) {
	if !actor.IsAuthenticated() {
		return nil, common.ErrUnauthorized
	}

	if err := s.members.Upsert(&domain.Member{ID: actor.ID, Name: actor.Name, Email: actor.Email}); err != nil {
		return nil, err
	}

	creator := domain.Member{ID: actor.ID}
	group := &domain.Group{
		Name:   req.Name,
		Users:  []domain.Member{creator},
		Admins: []domain.Member{creator},
	}
	if err := s.groups.Create(group); err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup removes a group, its member links and its invitations
func (s *groupService) DeleteGroup(actor *domain.Actor, groupID uint64) error {
	ok, err := s.canAdminister(actor, groupID)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrPermissionDenied
	}
	if _, err := s.loadGroup(groupID); err != nil {
		return err
	}
	return s.groups.Delete(groupID)
}

// AddMember puts a user straight into the member set, bypassing the
// invitation flow. Administrator only; the user must already exist.
func (s *groupService) AddMember(actor *domain.Actor, groupID, userID uint64) error {
	ok, err := s.canAdminister(actor, groupID)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrPermissionDenied
	}
	if _, err := s.loadGroup(groupID); err != nil {
		return err
	}
	member, err := s.members.FindByID(userID)
	if err != nil {
		return err
	}
	if member == nil {
		return common.ErrNotFound
	}
	err = s.groups.AddUser(groupID, userID)
	if errors.Is(err, common.ErrDuplicateMember) {
		return nil
	}
	return err
}

// RemoveMember drops a user from the group's member set. Members may
// remove themselves; anything else needs an administrator.
func (s *groupService) RemoveMember(actor *domain.Actor, groupID, userID uint64) error {
	self := actor.IsAuthenticated() && actor.ID == userID
	if !self {
		ok, err := s.canAdminister(actor, groupID)
		if err != nil {
			return err
		}
		if !ok {
			return common.ErrPermissionDenied
		}
	}
	if _, err := s.loadGroup(groupID); err != nil {
		return err
	}
	return s.groups.RemoveUser(groupID, userID)
}

// GrantAdmin promotes a user to group administrator. Adminship does not
// imply membership; the member set stays as it was.
func (s *groupService) GrantAdmin(actor *domain.Actor, groupID, userID uint64) error {
	ok, err := s.canAdminister(actor, groupID)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrPermissionDenied
	}
	if _, err := s.loadGroup(groupID); err != nil {
		return err
	}
	err = s.groups.AddAdmin(groupID, userID)
	if errors.Is(err, common.ErrDuplicateMember) {
		return nil
	}
	return err
}

// ListInvitations returns the caller's invitations, newest first
func (s *groupService) ListInvitations(actor *domain.Actor) ([]domain.Invitation, error) {
	if !actor.IsAuthenticated() {
		return nil, common.ErrUnauthorized
	}
	return s.invitations.ListForUser(actor.ID)
}

// Invite creates a pending invitation and mails the recipient. Only
// group administrators and staff may invite.
func (s *groupService) Invite(actor *domain.Actor, groupID uint64, req *domain.InviteRequest) (*domain.Invitation, error) {
	if !actor.IsAuthenticated() {
		return nil, common.ErrUnauthorized
	}
	ok, err := s.canAdminister(actor, groupID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrPermissionDenied
	}
	group, err := s.loadGroup(groupID)
	if err != nil {
		return nil, err
	}

	recipient, err := s.members.FindByID(req.UserID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, common.ErrNotFound
	}

	invitation := &domain.Invitation{
		GroupID:  groupID,
		SentByID: actor.ID,
		SentToID: req.UserID,
		SentDate: time.Now(),
	}
	if err := s.invitations.Create(invitation); err != nil {
		return nil, err
	}

	invitation.Group = group
	invitation.SentBy = &domain.Member{ID: actor.ID, Name: actor.Name, Email: actor.Email}
	s.notify.InvitationReceived(invitation)
	return invitation, nil
}

// AnswerInvitation resolves a pending invitation. Only the recipient
// may answer; acceptance joins the group; a second answer is rejected
// by the guarded transition regardless of outcome.
func (s *groupService) AnswerInvitation(actor *domain.Actor, invitationID uint64, accept bool) error {
	if !actor.IsAuthenticated() {
		return common.ErrUnauthorized
	}
	invitation, err := s.invitations.FindByID(invitationID)
	if err != nil {
		return err
	}
	if invitation == nil {
		return common.ErrInvitationNotFound
	}
	if invitation.SentToID != actor.ID {
		return common.ErrPermissionDenied
	}

	if err := s.invitations.Answer(invitationID, accept, time.Now()); err != nil {
		return err
	}

	if accept {
		// Already a member is fine: the invitation still resolves.
		err := s.groups.AddUser(invitation.GroupID, actor.ID)
		if err != nil && !errors.Is(err, common.ErrDuplicateMember) {
			return err
		}
	}
	return nil
}

// CancelInvitation deletes an invitation. The recipient, a group
// administrator or staff may cancel; the recipient is notified only
// when a still-pending invitation is withdrawn.
func (s *groupService) CancelInvitation(actor *domain.Actor, invitationID uint64) error {
	invitation, err := s.invitations.FindByID(invitationID)
	if err != nil {
		return err
	}
	if invitation == nil {
		return common.ErrInvitationNotFound
	}

	recipient := actor.IsAuthenticated() && invitation.SentToID == actor.ID
	if !recipient {
		ok, err := s.canAdminister(actor, invitation.GroupID)
		if err != nil {
			return err
		}
		if !ok {
			return common.ErrPermissionDenied
		}
	}

	if invitation.Pending() {
		s.notify.InvitationCancelled(invitation)
	}
	return s.invitations.Delete(invitationID)
}
