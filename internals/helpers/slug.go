package helper

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
)

// Slugify turns free text into [a-z0-9-] with accents stripped ("École Sainte-Thérèse" -> "ecole-sainte-therese").
func Slugify(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 100
	}
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}

	out := reNonAlnum.ReplaceAllString(b.String(), "-")
	out = reHyphen.ReplaceAllString(out, "-")
	out = strings.Trim(out, "-")
	if len(out) > maxLen {
		out = strings.Trim(out[:maxLen], "-")
	}
	if out == "" {
		out = "ecole"
	}
	return out
}

// EnsureUniqueSlug appends -2, -3... until no row of table has the slug in column.
// Soft-deleted rows count too because the column carries a unique index.
func EnsureUniqueSlug(ctx context.Context, db *gorm.DB, table, column, base string, maxLen int) (string, error) {
	if maxLen <= 0 {
		maxLen = 100
	}
	slug := base
	for i := 2; i < 200; i++ {
		var count int64
		err := db.WithContext(ctx).Table(table).
			Where(fmt.Sprintf("LOWER(%s) = ?", column), strings.ToLower(slug)).
			Count(&count).Error
		if err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		suffix := fmt.Sprintf("-%d", i)
		trimmed := base
		if len(trimmed)+len(suffix) > maxLen {
			trimmed = strings.Trim(trimmed[:maxLen-len(suffix)], "-")
		}
		slug = trimmed + suffix
	}
	return "", fmt.Errorf("slug: no free suffix for %q", base)
}
