package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the process configuration, sourced from KOTTAGE_* environment
// variables.
type Config struct {
	Port            int    `envconfig:"PORT"`
	DatabasePath    string `envconfig:"DATABASE_PATH"`
	S3Bucket        string `envconfig:"S3_BUCKET"`
	S3PublicBaseURL string `envconfig:"S3_PUBLIC_BASE_URL"`
}

func loadConfig() (*Config, error) {
	c := new(Config)
	if err := envconfig.Process("kottage", c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.Port == 0 {
		c.Port = 8080
	}

	if c.DatabasePath == "" {
		c.DatabasePath = "kottage.db"
	}

	if c.S3Bucket == "" {
		c.S3Bucket = "kottage-uploads"
	}

	if c.S3PublicBaseURL == "" {
		c.S3PublicBaseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", c.S3Bucket)
	}

	return c, nil
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return cfg, nil
}
