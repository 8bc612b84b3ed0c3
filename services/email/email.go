package emailsvc

import "github.com/trezcool/presence/core"

// Service is an EmailService whose pending sends can be awaited before the process exits.
type Service interface {
	core.EmailService
	Wait()
}

// New returns the sendgrid service when an API key is configured, the console one otherwise.
func New(conf *core.Config, logger core.Logger) Service {
	if conf.SendgridApiKey != "" && !conf.Debug {
		return NewSendgridService(conf, logger)
	}
	return NewConsoleService(conf)
}
