package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Parser parses Go test files to extract test cases
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// Matches:
// - func TestCreateUser(t *testing.T)
// - func Test_user_login(t *testing.T)
// - func TestX(tt *testing.T)
var testFuncPattern = regexp.MustCompile(`(?m)^func\s+(Test(?:[^a-z]\w*)?)\s*\(\s*\w+\s+\*testing\.T\s*\)`)

// FindTestCases finds all top level tests in a _test.go file
func (p *Parser) FindTestCases(filePath string) ([]string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filePath, err)
	}

	testCasesMap := make(map[string]bool) // Use map to avoid duplicates
	for _, match := range testFuncPattern.FindAllStringSubmatch(string(content), -1) {
		if match[1] == "TestMain" {
			continue
		}
		testCasesMap[match[1]] = true
	}

	// Convert map to sorted slice for consistent output
	testCases := make([]string, 0, len(testCasesMap))
	for testCase := range testCasesMap {
		testCases = append(testCases, testCase)
	}
	sort.Strings(testCases)

	return testCases, nil
}

// FindPackageTestCases finds the test cases of every _test.go file in dir
func (p *Parser) FindPackageTestCases(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading package %s: %w", dir, err)
	}

	var testCases []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "_test.go") {
			continue
		}
		cases, err := p.FindTestCases(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		testCases = append(testCases, cases...)
	}
	sort.Strings(testCases)
	return testCases, nil
}
