package email

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/zachm/hooprun/internal/app/models"
	"github.com/zachm/hooprun/internal/pkg/logger"
)

// Notifier renders and dispatches every email the application sends. All
// sends are best-effort: a failed dispatch is logged and never propagated
// to the request that triggered it.
type Notifier struct {
	dispatcher  Dispatcher
	frontendURL string
}

// NewNotifier creates a Notifier on top of a Dispatcher
func NewNotifier(dispatcher Dispatcher, frontendURL string) *Notifier {
	return &Notifier{
		dispatcher:  dispatcher,
		frontendURL: strings.TrimSuffix(frontendURL, "/"),
	}
}

// dispatchEach fans one message out to every recipient, staggering each
// dispatch by one second per recipient index.
func (n *Notifier) dispatchEach(recipients []string, msg Message) {
	for i, recipient := range recipients {
		out := msg
		out.To = []string{recipient}
		if err := n.dispatcher.Dispatch(out, time.Duration(i)*time.Second); err != nil {
			logger.Error().Err(err).Str("subject", msg.Subject).Msg("Failed to dispatch email")
		}
	}
}

// SendWelcome greets a freshly created account
func (n *Notifier) SendWelcome(user *models.User) {
	n.dispatchEach([]string{user.Email}, welcomeMessage(user.DisplayName()))
}

// SendAccountVerified tells a user they can now RSVP
func (n *Notifier) SendAccountVerified(user *models.User) {
	n.dispatchEach([]string{user.Email}, accountVerifiedMessage(user.DisplayName()))
}

// SendAdminNewUser alerts admins that a signup awaits verification
func (n *Notifier) SendAdminNewUser(adminEmails []string, newUser *models.User) {
	fullName := strings.TrimSpace(newUser.FirstName + " " + newUser.LastName)
	n.dispatchEach(adminEmails, adminNewUserMessage(newUser.Username, fullName))
}

// SendPasswordReset mails a 15-minute reset link
func (n *Notifier) SendPasswordReset(user *models.User, token string) {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", n.frontendURL, url.QueryEscape(token))
	n.dispatchEach([]string{user.Email}, passwordResetMessage(user.DisplayName(), resetURL))
}

// SendRunCreated announces a new run to all verified members
func (n *Notifier) SendRunCreated(recipients []string, run RunDetails) {
	n.dispatchEach(recipients, runCreatedMessage(run))
}

// SendRunModified tells participants which fields changed
func (n *Notifier) SendRunModified(recipients []string, run RunDetails, changes []FieldChange) {
	if len(changes) == 0 {
		return
	}
	n.dispatchEach(recipients, runModifiedMessage(run, changes))
}

// SendRunCancelled tells participants a run was deleted
func (n *Notifier) SendRunCancelled(recipients []string, run RunDetails) {
	n.dispatchEach(recipients, runCancelledMessage(run))
}

// SendRunReminder forwards an admin-written reminder to participants
func (n *Notifier) SendRunReminder(recipients []string, run RunDetails, note string) {
	n.dispatchEach(recipients, runReminderMessage(run, note))
}

// SendRunCompleted closes the loop with attendees after completion
func (n *Notifier) SendRunCompleted(recipients []string, run RunDetails) {
	n.dispatchEach(recipients, runCompletedMessage(run))
}

// SendAnnouncement broadcasts a new announcement to all verified members
func (n *Notifier) SendAnnouncement(recipients []string, text string) {
	n.dispatchEach(recipients, announcementMessage(text))
}
