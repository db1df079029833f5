// Package awsutil glues multikube to AWS: profile enumeration from the
// shared config file, STS identity lookups with SSO re-authentication, and
// EKS cluster discovery.
package awsutil

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"gopkg.in/ini.v1"

	"github.com/aryankumar/multikube/internal/util"
)

// ConfigFilePath returns the AWS config file location, honouring the
// AWS_CONFIG_FILE override
func ConfigFilePath() string {
	if file := os.Getenv("AWS_CONFIG_FILE"); file != "" {
		return file
	}
	return config.DefaultSharedConfigFilename()
}

// LoadProfiles enumerates the profile names declared in the AWS config
// file, sorted alphabetically. It fails with ErrNoProfiles when the file is
// missing or declares none.
func LoadProfiles() ([]string, error) {
	return loadProfilesFrom(ConfigFilePath())
}

func loadProfilesFrom(path string) ([]string, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		AllowNonUniqueSections:  false,
		SkipUnrecognizableLines: false,
		AllowNestedValues:       true,
	}, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, util.ErrNoProfiles
		}
		return nil, fmt.Errorf("failed to parse AWS config file: %w", err)
	}

	var names []string
	for _, section := range file.Sections() {
		name := section.Name()
		// The ini package injects a DEFAULT section, which is distinct from
		// the AWS standard 'default' profile
		if name == "DEFAULT" {
			continue
		}
		switch {
		case strings.HasPrefix(name, "profile ") && len(name) > len("profile "):
			names = append(names, strings.TrimPrefix(name, "profile "))
		case name == "default":
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, util.ErrNoProfiles
	}

	sort.Strings(names)
	return names, nil
}
