package service

import (
	"fmt"

	"github.com/talkboard/talkboard-backend/internal/domain"
	"github.com/talkboard/talkboard-backend/internal/repository"
	"github.com/talkboard/talkboard-backend/pkg/logger"
	"github.com/talkboard/talkboard-backend/pkg/mailer"
)

// NotifyService computes the recipient set for board events and hands
// the rendered message to the mail transport. It never blocks or fails
// the content mutation that triggered it: dispatch runs on its own
// goroutine and transport errors follow the configured failure policy.
type NotifyService struct {
	settings repository.SettingsRepository
	watches  repository.WatchRepository
	members  repository.MemberRepository
	mail     mailer.Mailer
	renderer *mailer.Renderer

	enabled      bool
	failSilently bool
	adminEmails  []string
}

// NewNotifyService creates a new NotifyService
func NewNotifyService(
	settings repository.SettingsRepository,
	watches repository.WatchRepository,
	members repository.MemberRepository,
	mail mailer.Mailer,
	renderer *mailer.Renderer,
	enabled bool,
	failSilently bool,
	adminEmails []string,
) *NotifyService {
	return &NotifyService{
		settings:     settings,
		watches:      watches,
		members:      members,
		mail:         mail,
		renderer:     renderer,
		enabled:      enabled,
		failSilently: failSilently,
		adminEmails:  adminEmails,
	}
}

// Enabled reports whether notifications are globally on
func (s *NotifyService) Enabled() bool {
	return s.enabled
}

// DispatchNewPost runs the new-post notification flow asynchronously.
// The triggering request returns regardless of transport outcome.
func (s *NotifyService) DispatchNewPost(post *domain.Post, thread *domain.Thread) {
	if !s.enabled || post.AuthorID == nil || post.IsRevision() {
		return
	}
	go func() {
		if err := s.NotifyNewPost(post, thread); err != nil {
			logger.GetLogger().Error().Err(err).
				Uint64("post_id", post.ID).
				Uint64("thread_id", thread.ID).
				Msg("new post notification failed")
		}
	}()
}

// NotifyNewPost subscribes the author to the thread, computes the
// recipient set and sends one notification for the post.
func (s *NotifyService) NotifyNewPost(post *domain.Post, thread *domain.Thread) error {
	authorID := *post.AuthorID

	// Authors get a settings row on first post and auto-watch every
	// thread they post in.
	if _, _, err := s.settings.GetOrCreate(authorID); err != nil {
		return fmt.Errorf("ensure settings: %w", err)
	}
	if _, _, err := s.watches.GetOrCreate(authorID, thread.ID); err != nil {
		return fmt.Errorf("ensure watch: %w", err)
	}

	recipients, err := s.Recipients(thread.ID)
	if err != nil {
		return fmt.Errorf("compute recipients: %w", err)
	}
	if len(recipients) == 0 {
		return nil
	}

	body, err := s.renderer.Render("notify_new_post", map[string]interface{}{
		"author":  post.AuthorName,
		"subject": thread.Subject,
		"text":    post.Text,
	})
	if err != nil {
		return fmt.Errorf("render body: %w", err)
	}

	if err := s.mail.Send(recipients, thread.Subject, body); err != nil {
		if s.failSilently {
			logger.GetLogger().Warn().Err(err).Uint64("thread_id", thread.ID).Msg("notification transport failed")
			return nil
		}
		return err
	}
	return nil
}

// Recipients returns the deduplicated address set for a thread: every
// watcher minus those who disabled email notification, plus the site
// administrator addresses, which are always included.
func (s *NotifyService) Recipients(threadID uint64) ([]string, error) {
	watchers, err := s.watches.ListWatchers(threadID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, len(watchers))
	for i := range watchers {
		ids[i] = watchers[i].ID
	}

	disabled, err := s.settings.NotifyDisabledIDs(ids)
	if err != nil {
		return nil, err
	}
	optedOut := make(map[uint64]struct{}, len(disabled))
	for _, id := range disabled {
		optedOut[id] = struct{}{}
	}

	seen := make(map[string]struct{})
	var recipients []string
	add := func(addr string) {
		if addr == "" {
			return
		}
		if _, dup := seen[addr]; dup {
			return
		}
		seen[addr] = struct{}{}
		recipients = append(recipients, addr)
	}

	for i := range watchers {
		if _, out := optedOut[watchers[i].ID]; out {
			continue
		}
		add(watchers[i].Email)
	}
	// Administrators receive a copy regardless of their preference.
	for _, addr := range s.adminEmails {
		add(addr)
	}

	return recipients, nil
}

// InvitationReceived mails the recipient of a newly created, still
// pending invitation.
func (s *NotifyService) InvitationReceived(invitation *domain.Invitation) {
	s.dispatchInvitation(invitation, "invitation_received", "Group invitation")
}

// InvitationCancelled mails the recipient of a cancelled pending
// invitation.
func (s *NotifyService) InvitationCancelled(invitation *domain.Invitation) {
	s.dispatchInvitation(invitation, "invitation_cancelled", "Group invitation cancelled")
}

func (s *NotifyService) dispatchInvitation(invitation *domain.Invitation, template, subject string) {
	if !invitation.Pending() {
		return
	}
	groupName := ""
	if invitation.Group != nil {
		groupName = invitation.Group.Name
	}
	senderName := ""
	if invitation.SentBy != nil {
		senderName = invitation.SentBy.Name
	}
	recipientID := invitation.SentToID

	go func() {
		member, err := s.members.FindByID(recipientID)
		if err != nil || member == nil || member.Email == "" {
			if err != nil {
				logger.GetLogger().Error().Err(err).Uint64("user_id", recipientID).Msg("invitation recipient lookup failed")
			}
			return
		}
		body, err := s.renderer.Render(template, map[string]interface{}{
			"group":  groupName,
			"sender": senderName,
		})
		if err != nil {
			logger.GetLogger().Error().Err(err).Str("template", template).Msg("invitation render failed")
			return
		}
		if err := s.mail.Send([]string{member.Email}, subject, body); err != nil {
			logger.GetLogger().Warn().Err(err).Uint64("user_id", recipientID).Msg("invitation mail failed")
		}
	}()
}
