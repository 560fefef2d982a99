package credentials

import (
	"fmt"

	"sigs.k8s.io/yaml"

	"github.com/fedsign/fedsign/utils"
)

// LoadFromFile reads a credential triple from a YAML file, typically written
// by whatever agent performs the federated login:
//
//	accessKey: ASIAEXAMPLE
//	secretKey: verysecret
//	sessionToken: eyJhbGciOi...
func LoadFromFile(filePath string) (*AWSCredentials, error) {
	content, err := utils.ReadFileFull(filePath)
	if err != nil {
		return nil, fmt.Errorf("could not read credentials file %s: %w", filePath, err)
	}
	cred := &AWSCredentials{}
	if err := yaml.Unmarshal(content, cred); err != nil {
		return nil, fmt.Errorf("could not parse credentials file %s: %w", filePath, err)
	}
	if err := cred.Validate(); err != nil {
		return nil, fmt.Errorf("credentials file %s: %w", filePath, err)
	}
	return cred, nil
}
