package core

import (
	"bytes"
	"encoding/base64"
	"net/mail"
	texttmpl "text/template"
)

type (
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		Template     *texttmpl.Template
		TemplateData interface{}
		TextContent  string
		HTMLContent  string

		Attachments []Attachment
	}

	Attachment struct {
		Filename    string
		ContentType string
		Content     []byte
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

func (m *EmailMessage) Render() error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
		return nil
	} else if m.Template == nil {
		return nil
	}

	var buff bytes.Buffer
	if err := m.Template.Execute(&buff, m.TemplateData); err != nil {
		return err
	}
	m.TextContent = buff.String()
	return nil
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return (m.TextContent != "") || (m.HTMLContent != "") }

func (m *EmailMessage) HasAttachments() bool { return len(m.Attachments) > 0 }

// Attach adds a file to the message.
func (m *EmailMessage) Attach(filename, contentType string, content []byte) {
	m.Attachments = append(m.Attachments, Attachment{Filename: filename, ContentType: contentType, Content: content})
}

// Base64 is the standard encoding of the content, as mail transports expect it.
func (at Attachment) Base64() string {
	return base64.StdEncoding.EncodeToString(at.Content)
}
