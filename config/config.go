package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Google struct {
	ApplicationCredentials string `split_words:"true"`
}

type AWS struct {
	ApplicationCredentials string `split_words:"true"`
}

type Client struct {
	Google Google
	AWS    AWS
}

func LoadClient() (Client, error) {
	var cfg Client
	if err := envconfig.Process("GOOGLE", &cfg.Google); err != nil {
		return Client{}, fmt.Errorf("processing google config: %w", err)
	}
	if err := envconfig.Process("AWS", &cfg.AWS); err != nil {
		return Client{}, fmt.Errorf("processing aws config: %w", err)
	}
	return cfg, nil
}
