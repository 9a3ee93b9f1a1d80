package config

import "github.com/urfave/cli/v3"

// Webhook holds webhook verification configuration
type Webhook struct {
	Secret string
}

// Flags returns CLI flags for webhook configuration. The secret is
// optional: when unset, inbound events are accepted without a
// signature check.
func (c *Webhook) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "webhook-secret",
			Usage:       "Shared secret for webhook signature verification (empty disables verification)",
			Destination: &c.Secret,
			Sources:     cli.EnvVars("DROVER_WEBHOOK_SECRET"),
		},
	}
}
