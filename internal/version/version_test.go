package version

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type VersionTestSuite struct {
	suite.Suite
}

func TestVersionSuite(t *testing.T) {
	suite.Run(t, new(VersionTestSuite))
}

func (suite *VersionTestSuite) TestCheckResultCompatibility() {
	tests := []struct {
		name          string
		engineVersion string
		resultVersion string
		expectError   bool
	}{
		{"exact match", "1.0.0", "1.0.0", false},
		{"patch differs", "1.0.1", "1.0.0", false},
		{"minor differs", "1.2.0", "1.0.0", false},
		{"major differs", "2.0.0", "1.0.0", true},
		{"v prefix stripped", "v1.0.0", "1.0.3", false},
		{"dev engine build skips check", "main", "1.0.0", false},
		{"dev result build skips check", "1.0.0", "main", false},
		{"invalid engine version", "not-a-version", "1.0.0", true},
		{"invalid result version", "1.0.0", "not-a-version", true},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			err := CheckResultCompatibility(tc.engineVersion, tc.resultVersion)
			if tc.expectError {
				suite.Error(err)
			} else {
				suite.NoError(err)
			}
		})
	}
}

func (suite *VersionTestSuite) TestEngineVersionIsValidSemver() {
	suite.NoError(CheckResultCompatibility(EngineVersion, EngineVersion))
}
