package config

import "strings"

// StorageConfig contains dump storage configuration. Credentials for S3 are
// resolved by the AWS SDK's default chain (AWS_ACCESS_KEY_ID and friends);
// only the bucket default lives here.
type StorageConfig struct {
	// Bucket is the default S3 bucket for jobs whose dump policy does not
	// name one.
	Bucket string `env:"AWS_BUCKET" envDefault:""`
}

// Sanitize normalises storage configuration values.
func (c *StorageConfig) Sanitize() {
	c.Bucket = strings.TrimSpace(c.Bucket)
}
