package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zachm/hooprun/internal/app/models"
)

type dispatchCall struct {
	msg   Message
	delay time.Duration
}

type captureDispatcher struct {
	calls []dispatchCall
}

func (d *captureDispatcher) Dispatch(msg Message, delay time.Duration) error {
	d.calls = append(d.calls, dispatchCall{msg: msg, delay: delay})
	return nil
}

func TestNotifierStaggersRecipients(t *testing.T) {
	dispatcher := &captureDispatcher{}
	notifier := NewNotifier(dispatcher, "https://hooprun.app")

	recipients := []string{"a@x.test", "b@x.test", "c@x.test"}
	notifier.SendRunCreated(recipients, RunDetails{Title: "Saturday Run"})

	require.Len(t, dispatcher.calls, 3)
	for i, call := range dispatcher.calls {
		assert.Equal(t, []string{recipients[i]}, call.msg.To)
		assert.Equal(t, time.Duration(i)*time.Second, call.delay)
	}
	assert.Contains(t, dispatcher.calls[0].msg.Subject, "Saturday Run")
}

func TestNotifierPasswordResetLink(t *testing.T) {
	dispatcher := &captureDispatcher{}
	notifier := NewNotifier(dispatcher, "https://hooprun.app/")

	user := &models.User{Email: "al@x.test", FirstName: "Al"}
	notifier.SendPasswordReset(user, "tok/en+1")

	require.Len(t, dispatcher.calls, 1)
	msg := dispatcher.calls[0].msg
	assert.Equal(t, []string{"al@x.test"}, msg.To)
	// Trailing slash is trimmed and the token is query-escaped
	assert.Contains(t, msg.HTML, "https://hooprun.app/reset-password?token=tok%2Fen%2B1")
	assert.Contains(t, msg.Text, "https://hooprun.app/reset-password?token=tok%2Fen%2B1")
}

func TestNotifierRunModifiedSkipsEmptyChanges(t *testing.T) {
	dispatcher := &captureDispatcher{}
	notifier := NewNotifier(dispatcher, "https://hooprun.app")

	notifier.SendRunModified([]string{"a@x.test"}, RunDetails{Title: "Run"}, nil)
	assert.Empty(t, dispatcher.calls)

	changes := []FieldChange{{Field: "Start time", Old: "6:00 PM", New: "7:00 PM"}}
	notifier.SendRunModified([]string{"a@x.test"}, RunDetails{Title: "Run"}, changes)
	require.Len(t, dispatcher.calls, 1)
	assert.Contains(t, dispatcher.calls[0].msg.HTML, "7:00 PM")
}

func TestNotifierEscapesUserContent(t *testing.T) {
	dispatcher := &captureDispatcher{}
	notifier := NewNotifier(dispatcher, "https://hooprun.app")

	notifier.SendAnnouncement([]string{"a@x.test"}, `<script>alert("x")</script>`)

	require.Len(t, dispatcher.calls, 1)
	assert.NotContains(t, dispatcher.calls[0].msg.HTML, "<script>")
}
