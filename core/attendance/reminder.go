package attendance

import (
	"net/mail"
	"strings"
	texttmpl "text/template"

	"github.com/trezcool/presence/core"
)

var reminderTmpl = texttmpl.Must(texttmpl.New("reminder").Parse(strings.TrimSpace(`
Don't forget to log today's attendance ({{.Date}})!
{{if .Unmarked}}
Not marked yet today:
{{range .Unmarked}}  - {{.Name}}
{{end}}{{end}}{{if .Warnings}}
Below target:
{{range .Warnings}}  - {{.Name}}: {{.Stats.Percentage}}% ({{.Stats.Attended}}/{{.Stats.Total}}), target {{.AttendanceTarget}}%. {{.Projection}}
{{end}}{{end}}
Overall: {{.Overall.Percentage}}% ({{.Overall.Attended}}/{{.Overall.Total}})
`)))

type reminderData struct {
	Date     string
	Unmarked []Course
	Warnings []CourseSummary
	Overall  Stats
}

// Reminder mails the daily attendance reminder with the below-target warnings.
type Reminder struct {
	tracker *Tracker
	mailSvc core.EmailService
	to      []mail.Address
}

func NewReminder(tracker *Tracker, mailSvc core.EmailService, to ...mail.Address) *Reminder {
	return &Reminder{tracker: tracker, mailSvc: mailSvc, to: to}
}

// Message builds the reminder for date. ok is false when there are no courses to remind about.
func (r *Reminder) Message(date string) (msg *core.EmailMessage, ok bool) {
	courses := r.tracker.Courses()
	if len(courses) == 0 {
		return nil, false
	}

	data := reminderData{
		Date:     date,
		Warnings: r.tracker.Warnings(),
		Overall:  r.tracker.OverallAttendance(),
	}
	for _, c := range courses {
		if _, marked := r.tracker.AttendanceForDate(c.ID, date); !marked {
			data.Unmarked = append(data.Unmarked, c)
		}
	}

	subject := "Log today's attendance"
	if n := len(data.Warnings); n > 0 {
		subject += " - " + core.Pluralize(n, "course", "courses") + " below target"
	}
	return &core.EmailMessage{
		To:           r.to,
		Subject:      subject,
		Template:     reminderTmpl,
		TemplateData: data,
	}, true
}

// Send mails the reminder for the selected date. It reports whether a message was handed to the EmailService.
func (r *Reminder) Send() bool {
	if len(r.to) == 0 {
		return false
	}
	msg, ok := r.Message(r.tracker.SelectedDate())
	if !ok {
		return false
	}
	r.mailSvc.SendMessages(msg)
	return true
}
