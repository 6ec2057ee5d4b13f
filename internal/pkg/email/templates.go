package email

import (
	"fmt"
	"html"
	"strings"
)

// RunDetails carries the pre-formatted run fields shown in email bodies
type RunDetails struct {
	Title     string
	Date      string
	StartTime string
	EndTime   string
	Location  string
	Address   string
	CostLine  string
}

// FieldChange names one edited run field for the modification email
type FieldChange struct {
	Field string
	Old   string
	New   string
}

func wrapHTML(heading, body string) string {
	return fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #e85d04;">%s</h2>
				%s
				<p>See you on the court,<br>The HoopRun Team</p>
			</div>
		</body>
		</html>
	`, html.EscapeString(heading), body)
}

func runDetailsHTML(run RunDetails) string {
	var b strings.Builder
	b.WriteString(`<table style="border-collapse: collapse; margin: 20px 0;">`)
	rows := [][2]string{
		{"When", fmt.Sprintf("%s, %s - %s", run.Date, run.StartTime, run.EndTime)},
		{"Where", fmt.Sprintf("%s, %s", run.Location, run.Address)},
	}
	if run.CostLine != "" {
		rows = append(rows, [2]string{"Cost", run.CostLine})
	}
	for _, row := range rows {
		fmt.Fprintf(&b,
			`<tr><td style="padding: 4px 12px 4px 0; font-weight: bold;">%s</td><td style="padding: 4px 0;">%s</td></tr>`,
			html.EscapeString(row[0]), html.EscapeString(row[1]))
	}
	b.WriteString(`</table>`)
	return b.String()
}

func runDetailsText(run RunDetails) string {
	var b strings.Builder
	fmt.Fprintf(&b, "When: %s, %s - %s\n", run.Date, run.StartTime, run.EndTime)
	fmt.Fprintf(&b, "Where: %s, %s\n", run.Location, run.Address)
	if run.CostLine != "" {
		fmt.Fprintf(&b, "Cost: %s\n", run.CostLine)
	}
	return b.String()
}

func welcomeMessage(firstName string) Message {
	return Message{
		Subject: "Welcome to HoopRun!",
		HTML: wrapHTML("Welcome to HoopRun!", fmt.Sprintf(
			`<p>Hey %s,</p>
			<p>Your account is in. An admin will verify you shortly, and once that
			happens you can RSVP to runs.</p>`,
			html.EscapeString(firstName))),
		Text: fmt.Sprintf("Hey %s,\n\nYour account is in. An admin will verify you shortly, and once that happens you can RSVP to runs.\n\nThe HoopRun Team", firstName),
	}
}

func accountVerifiedMessage(firstName string) Message {
	return Message{
		Subject: "You're verified - come hoop",
		HTML: wrapHTML("You're verified!", fmt.Sprintf(
			`<p>Hey %s,</p>
			<p>An admin verified your account. You can now RSVP to any upcoming run.</p>`,
			html.EscapeString(firstName))),
		Text: fmt.Sprintf("Hey %s,\n\nAn admin verified your account. You can now RSVP to any upcoming run.\n\nThe HoopRun Team", firstName),
	}
}

func adminNewUserMessage(username, fullName string) Message {
	return Message{
		Subject: fmt.Sprintf("New signup: %s", username),
		HTML: wrapHTML("New signup", fmt.Sprintf(
			`<p>%s (<strong>%s</strong>) just created an account and is waiting
			for verification.</p>`,
			html.EscapeString(fullName), html.EscapeString(username))),
		Text: fmt.Sprintf("%s (%s) just created an account and is waiting for verification.\n\nThe HoopRun Team", fullName, username),
	}
}

func passwordResetMessage(firstName, resetURL string) Message {
	return Message{
		Subject: "Reset your HoopRun password",
		HTML: wrapHTML("Reset your password", fmt.Sprintf(
			`<p>Hey %s,</p>
			<p>Somebody asked to reset the password on this account. If that was
			you, click below within 15 minutes:</p>
			<div style="text-align: center; margin: 30px 0;">
				<a href="%s" style="background-color: #e85d04; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Reset Password</a>
			</div>
			<p>If it wasn't you, ignore this email and nothing changes.</p>`,
			html.EscapeString(firstName), resetURL)),
		Text: fmt.Sprintf("Hey %s,\n\nSomebody asked to reset the password on this account. If that was you, open this link within 15 minutes:\n\n%s\n\nIf it wasn't you, ignore this email and nothing changes.\n\nThe HoopRun Team", firstName, resetURL),
	}
}

func runCreatedMessage(run RunDetails) Message {
	return Message{
		Subject: fmt.Sprintf("New run: %s on %s", run.Title, run.Date),
		HTML: wrapHTML("New run scheduled", fmt.Sprintf(
			`<p>A new run just went up: <strong>%s</strong></p>%s
			<p>Log in to RSVP before spots fill up.</p>`,
			html.EscapeString(run.Title), runDetailsHTML(run))),
		Text: fmt.Sprintf("A new run just went up: %s\n\n%s\nLog in to RSVP before spots fill up.\n\nThe HoopRun Team", run.Title, runDetailsText(run)),
	}
}

func runModifiedMessage(run RunDetails, changes []FieldChange) Message {
	var htmlChanges, textChanges strings.Builder
	htmlChanges.WriteString("<ul>")
	for _, c := range changes {
		fmt.Fprintf(&htmlChanges, "<li><strong>%s</strong>: %s &rarr; %s</li>",
			html.EscapeString(c.Field), html.EscapeString(c.Old), html.EscapeString(c.New))
		fmt.Fprintf(&textChanges, "- %s: %s -> %s\n", c.Field, c.Old, c.New)
	}
	htmlChanges.WriteString("</ul>")

	return Message{
		Subject: fmt.Sprintf("Run updated: %s on %s", run.Title, run.Date),
		HTML: wrapHTML("Run details changed", fmt.Sprintf(
			`<p><strong>%s</strong> was updated:</p>%s%s`,
			html.EscapeString(run.Title), htmlChanges.String(), runDetailsHTML(run))),
		Text: fmt.Sprintf("%s was updated:\n\n%s\n%s\nThe HoopRun Team", run.Title, textChanges.String(), runDetailsText(run)),
	}
}

func runCancelledMessage(run RunDetails) Message {
	return Message{
		Subject: fmt.Sprintf("Cancelled: %s on %s", run.Title, run.Date),
		HTML: wrapHTML("Run cancelled", fmt.Sprintf(
			`<p><strong>%s</strong> has been cancelled. Sorry for the short
			notice.</p>%s`,
			html.EscapeString(run.Title), runDetailsHTML(run))),
		Text: fmt.Sprintf("%s has been cancelled. Sorry for the short notice.\n\n%s\nThe HoopRun Team", run.Title, runDetailsText(run)),
	}
}

func runReminderMessage(run RunDetails, note string) Message {
	noteHTML := ""
	noteText := ""
	if note != "" {
		noteHTML = fmt.Sprintf(`<p style="font-style: italic;">%s</p>`, html.EscapeString(note))
		noteText = note + "\n\n"
	}
	return Message{
		Subject: fmt.Sprintf("Reminder: %s on %s", run.Title, run.Date),
		HTML: wrapHTML("Run reminder", fmt.Sprintf(
			`<p>You're down for <strong>%s</strong>.</p>%s%s`,
			html.EscapeString(run.Title), noteHTML, runDetailsHTML(run))),
		Text: fmt.Sprintf("You're down for %s.\n\n%s%s\nThe HoopRun Team", run.Title, noteText, runDetailsText(run)),
	}
}

func runCompletedMessage(run RunDetails) Message {
	return Message{
		Subject: fmt.Sprintf("Wrapped up: %s on %s", run.Title, run.Date),
		HTML: wrapHTML("Run completed", fmt.Sprintf(
			`<p><strong>%s</strong> is in the books. Thanks for coming out.</p>%s`,
			html.EscapeString(run.Title), runDetailsHTML(run))),
		Text: fmt.Sprintf("%s is in the books. Thanks for coming out.\n\n%s\nThe HoopRun Team", run.Title, runDetailsText(run)),
	}
}

func announcementMessage(text string) Message {
	return Message{
		Subject: "HoopRun announcement",
		HTML: wrapHTML("Announcement", fmt.Sprintf(
			`<p>%s</p>`, html.EscapeString(text))),
		Text: fmt.Sprintf("%s\n\nThe HoopRun Team", text),
	}
}
