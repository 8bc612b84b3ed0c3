package emailsvc

import (
	"bytes"
	"net/mail"
	"strings"
	"testing"
	texttmpl "text/template"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/presence/core"
)

var testConf = &core.Config{AppName: "Presence", SendgridApiKey: "SG.key"}

func TestConsoleServiceMock(t *testing.T) {
	ResetSentMessages()
	defer ResetSentMessages()

	var out bytes.Buffer
	svc := NewConsoleServiceMock(testConf, &out)

	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: "Student", Address: "student@example.com"}},
		Subject:      "Log today's attendance",
		Template:     texttmpl.Must(texttmpl.New("t").Parse("Hello {{.}}")),
		TemplateData: "there",
	}
	msg.Attach("attendance.xlsx", "application/octet-stream", []byte("xlsx"))
	svc.SendMessages(msg, &core.EmailMessage{Subject: "nobody to send to", BodyStr: "lost"})

	if len(SentMessages) != 1 {
		t.Fatalf("SentMessages = %d; want 1", len(SentMessages))
	}
	assert.Equal(t, "Hello there", SentMessages[0].TextContent)

	printed := out.String()
	for _, want := range []string{
		"Subject: [Presence] Log today's attendance",
		`To: "Student" <student@example.com>`,
		"Content-Type: multipart/mixed; boundary=",
		"Hello there",
		"attachment; filename=attendance.xlsx",
		"eGxzeA==",
	} {
		if !strings.Contains(printed, want) {
			t.Errorf("output does not contain %q:\n%s", want, printed)
		}
	}
}

func TestSendgridService_prepare(t *testing.T) {
	svc := NewSendgridService(testConf, nil)
	msg := core.EmailMessage{
		To:          []mail.Address{{Name: "A", Address: "a@example.com"}},
		Cc:          []mail.Address{{Address: "b@example.com"}},
		Subject:     "Hi",
		TextContent: "text",
	}
	msg.Attach("r.xlsx", "application/octet-stream", []byte("xlsx"))

	m := svc.prepare(msg)
	if len(m.Personalizations) != 1 {
		t.Fatalf("Personalizations = %d; want 1", len(m.Personalizations))
	}
	p := m.Personalizations[0]
	assert.Equal(t, "[Presence] Hi", p.Subject)
	assert.Equal(t, "a@example.com", p.To[0].Address)
	assert.Equal(t, "b@example.com", p.CC[0].Address)
	assert.Len(t, m.Content, 1, "no html part without html content")
	assert.Equal(t, "Presence", m.From.Name)
	assert.Equal(t, "eGxzeA==", m.Attachments[0].Content)
}

func TestNew(t *testing.T) {
	if _, ok := New(&core.Config{Debug: true, SendgridApiKey: "SG.key"}, nil).(*consoleService); !ok {
		t.Error("New() in debug mode must print to the console")
	}
	if _, ok := New(&core.Config{SendgridApiKey: "SG.key"}, nil).(*sendgridService); !ok {
		t.Error("New() with an api key must use sendgrid")
	}
}
