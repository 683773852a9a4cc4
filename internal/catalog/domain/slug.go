package domain

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fallbackSlug is used when a name has no ASCII letters or digits left after normalisation.
const fallbackSlug = "store"

// SlugLookup returns every existing slug matching a case-insensitive pattern.
type SlugLookup func(ctx context.Context, pattern string) ([]string, error)

// Slugify turns a display name into a lowercase, hyphen-separated, URL-safe token.
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			hyphen = false
			continue
		}
		if !hyphen && b.Len() > 0 {
			b.WriteByte('-')
			hyphen = true
		}
	}

	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		return fallbackSlug
	}
	return slug
}

// SlugPattern matches the base slug optionally followed by -<integer>.
// Callers match it case-insensitively.
func SlugPattern(base string) string {
	return "^" + regexp.QuoteMeta(base) + "(-[0-9]+)?$"
}

// MatchesSlugBase reports whether slug is base or base-<integer>.
func MatchesSlugBase(slug, base string) bool {
	re, err := regexp.Compile("(?i)" + SlugPattern(base))
	if err != nil {
		return false
	}
	return re.MatchString(slug)
}

// NextSlug picks the slug for a new name given the slugs already matching its base.
// With N matches the result is base-(N+1), advanced past any suffix already taken.
func NextSlug(base string, existing []string) string {
	if len(existing) == 0 {
		return base
	}
	taken := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		taken[strings.ToLower(s)] = struct{}{}
	}
	for n := len(existing) + 1; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}

// GenerateSlug derives a unique slug for name using lookup as the soft uniqueness check.
func GenerateSlug(ctx context.Context, name string, lookup SlugLookup) (string, error) {
	base := Slugify(name)
	existing, err := lookup(ctx, SlugPattern(base))
	if err != nil {
		return "", err
	}
	return NextSlug(base, existing), nil
}
