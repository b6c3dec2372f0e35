package codeowners

import (
	"regexp"
	"strings"
)

// OwnershipRule maps a gitignore-style path pattern to its owners.
type OwnershipRule struct {
	Pattern string
	Owners  []string
	matcher *regexp.Regexp
}

// Matches tells whether path (relative, "/"-separated) is covered by the rule.
func (r OwnershipRule) Matches(path string) bool {
	return r.matcher.MatchString(strings.TrimPrefix(path, "/"))
}

// OwnershipRules is an ordered CODEOWNERS ruleset. Later rules take precedence.
type OwnershipRules []OwnershipRule

// ParseOwnershipRules reads CODEOWNERS content. Blank lines, comments and
// GitLab section headers are skipped, as are lines whose pattern cannot be compiled.
func ParseOwnershipRules(content string) OwnershipRules {
	var rules OwnershipRules
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(stripComment(line))
		if line == "" || strings.HasPrefix(line, "[") || strings.HasPrefix(line, "^[") {
			continue
		}

		fields := strings.Fields(line)
		matcher, err := compilePattern(fields[0])
		if err != nil {
			continue
		}
		rules = append(rules, OwnershipRule{Pattern: fields[0], Owners: fields[1:], matcher: matcher})
	}
	return rules
}

// OwnersFor returns the owners of the last rule matching path.
func (r OwnershipRules) OwnersFor(path string) []string {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i].Matches(path) {
			return r[i].Owners
		}
	}
	return nil
}

// RootOwner returns the first owner of the last rule covering the whole
// repository ("*", "/*", "**" or "/**"), or "" when there is none.
func (r OwnershipRules) RootOwner() string {
	for i := len(r) - 1; i >= 0; i-- {
		switch r[i].Pattern {
		case "*", "/*", "**", "/**":
			if len(r[i].Owners) > 0 {
				return r[i].Owners[0]
			}
			return ""
		}
	}
	return ""
}

// NormalizeOwner turns a CODEOWNERS owner into a catalog owner reference:
// "@org/team" becomes "team", "@user" becomes "user" and an e-mail address
// becomes its local part.
func NormalizeOwner(owner string) string {
	if local, _, isEmail := strings.Cut(owner, "@"); isEmail && local != "" {
		return local
	}
	owner = strings.TrimPrefix(owner, "@")
	if _, team, isTeam := strings.Cut(owner, "/"); isTeam {
		return team
	}
	return owner
}

func stripComment(line string) string {
	if strings.HasPrefix(strings.TrimSpace(line), "#") {
		return ""
	}
	if index := strings.Index(line, " #"); index >= 0 {
		return line[:index]
	}
	return line
}

// compilePattern translates a gitignore-style pattern. Patterns without an
// inner slash match at any depth; a trailing slash matches directory contents only.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	anchored := strings.HasPrefix(pattern, "/")
	body := strings.TrimPrefix(pattern, "/")
	dirOnly := strings.HasSuffix(body, "/")
	body = strings.TrimSuffix(body, "/")
	if body == "" {
		return regexp.Compile(`^.*$`)
	}
	if strings.Contains(body, "/") {
		anchored = true
	}

	var expr strings.Builder
	expr.WriteString("^")
	if !anchored {
		expr.WriteString("(?:.*/)?")
	}
	for i := 0; i < len(body); i++ {
		switch {
		case strings.HasPrefix(body[i:], "**/"):
			expr.WriteString("(?:.*/)?")
			i += 2
		case strings.HasPrefix(body[i:], "**"):
			expr.WriteString(".*")
			i++
		case body[i] == '*':
			expr.WriteString("[^/]*")
		case body[i] == '?':
			expr.WriteString("[^/]")
		default:
			expr.WriteString(regexp.QuoteMeta(body[i : i+1]))
		}
	}
	if dirOnly {
		expr.WriteString("/.*$")
	} else {
		expr.WriteString("(?:/.*)?$")
	}
	return regexp.Compile(expr.String())
}
