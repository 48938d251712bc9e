package rekognition

// Config holds configuration for the AWS Rekognition provider
type Config struct {
	// Region is the AWS region where the Rekognition service is used
	Region string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	return Config{
		Region: "us-east-1",
	}
}
