// Package format rewrites base16sh configuration files in canonical HCL
// style.
package format

import (
	"fmt"
	"os"
	"regexp"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

var multipleBlankLines = regexp.MustCompile(`\n{3,}`)
var blankLineAfterOpenBrace = regexp.MustCompile(`\{\n\s*\n`)
var blankLineBeforeCloseBrace = regexp.MustCompile(`\n\s*\n(\s*\})`)

// Format returns content in canonical HCL style: hclwrite spacing and
// alignment, at most one blank line in a row, and no blank lines just inside
// braces. Content that does not parse as HCL is rejected so that a broken
// file is never rewritten.
func Format(content string) (string, error) {
	if _, diags := hclsyntax.ParseConfig([]byte(content), "", hcl.Pos{Line: 1, Column: 1}); diags.HasErrors() {
		return "", fmt.Errorf("parsing HCL: %s", diags.Error())
	}

	formatted := hclwrite.Format([]byte(content))
	collapsed := multipleBlankLines.ReplaceAllString(string(formatted), "\n\n")
	collapsed = blankLineAfterOpenBrace.ReplaceAllString(collapsed, "{\n")
	collapsed = blankLineBeforeCloseBrace.ReplaceAllString(collapsed, "\n${1}")
	return collapsed, nil
}

// File formats the file at path and reports whether its content changed.
// The file is only rewritten when write is true.
func File(path string, write bool) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	content := string(data)
	formatted, err := Format(content)
	if err != nil {
		return false, fmt.Errorf("formatting %s: %w", path, err)
	}
	if formatted == content {
		return false, nil
	}

	if write {
		if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
			return true, fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return true, nil
}
