package config

import (
	bugghost "bugghost-client"
	"bugghost-client/internal/utils"
)

// NewClient creates a Bug Ghost client from resolved settings
func NewClient(s Settings) *bugghost.Client {
	opts := []bugghost.ClientOption{bugghost.WithBaseURL(s.APIURL)}
	if s.Timeout > 0 {
		opts = append(opts, bugghost.WithTimeout(s.Timeout))
	}
	return bugghost.NewClient(opts...)
}

// LoadClient loads configuration and creates a Bug Ghost client. A broken
// config file is logged and the remaining layers still apply.
func LoadClient() (*bugghost.Client, Settings) {
	s, err := Load()
	if err != nil {
		utils.LogDebug("config: %v", err)
	}
	utils.LogDebug("config: api_url=%s source=%q", s.APIURL, s.Source)
	return NewClient(s), s
}
