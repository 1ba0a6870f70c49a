package helper

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"École Sainte-Thérèse", 0, "ecole-sainte-therese"},
		{"  Lycée   Français de Dakar  ", 0, "lycee-francais-de-dakar"},
		{"Collège N°2 / Annexe", 0, "college-n-2-annexe"},
		{"!!!", 0, "ecole"},
		{"Groupe Scolaire Al Amine", 10, "groupe-sco"},
		{"Abc Def", 4, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in, tt.max))
		})
	}
}

type slugRow struct {
	ID   int    `gorm:"primaryKey"`
	Slug string `gorm:"column:slug"`
}

func TestEnsureUniqueSlug(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "slug.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Table("slug_rows").AutoMigrate(&slugRow{}))
	ctx := context.Background()

	got, err := EnsureUniqueSlug(ctx, db, "slug_rows", "slug", "ecole-alpha", 20)
	require.NoError(t, err)
	assert.Equal(t, "ecole-alpha", got)

	require.NoError(t, db.Table("slug_rows").Create(&slugRow{Slug: "ecole-alpha"}).Error)
	got, err = EnsureUniqueSlug(ctx, db, "slug_rows", "slug", "ecole-alpha", 20)
	require.NoError(t, err)
	assert.Equal(t, "ecole-alpha-2", got)

	require.NoError(t, db.Table("slug_rows").Create(&slugRow{Slug: "ecole-alpha-2"}).Error)
	got, err = EnsureUniqueSlug(ctx, db, "slug_rows", "slug", "ecole-alpha", 20)
	require.NoError(t, err)
	assert.Equal(t, "ecole-alpha-3", got)

	// the suffix never pushes the slug past maxLen
	require.NoError(t, db.Table("slug_rows").Create(&slugRow{Slug: "abcdefghij"}).Error)
	got, err = EnsureUniqueSlug(ctx, db, "slug_rows", "slug", "abcdefghij", 10)
	require.NoError(t, err)
	assert.Equal(t, "abcdefgh-2", got)
}
