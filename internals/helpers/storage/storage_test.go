package storage_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	subjectModel "schoolku_backend/internals/features/school/academics/subjects/model"
	"schoolku_backend/internals/helpers/reporter"
	"schoolku_backend/internals/helpers/storage"
	"schoolku_backend/internals/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFitPNG(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		want image.Point
	}{
		{name: "landscape is fitted", w: 1024, h: 512, want: image.Pt(512, 256)},
		{name: "portrait is fitted", w: 300, h: 900, want: image.Pt(170, 512)},
		{name: "small image untouched", w: 100, h: 80, want: image.Pt(100, 80)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, size, err := storage.FitPNG(bytes.NewReader(pngBytes(t, tt.w, tt.h)), 512, 512)
			require.NoError(t, err)
			assert.Equal(t, tt.want, size)

			cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
			require.NoError(t, err)
			assert.Equal(t, "png", format)
			assert.Equal(t, tt.want.X, cfg.Width)
		})
	}

	_, _, err := storage.FitPNG(strings.NewReader("not an image"), 512, 512)
	assert.Error(t, err)
}

func TestLocalStoreLifecycle(t *testing.T) {
	dir := t.TempDir()
	s := storage.NewLocalStore(dir, "/uploads/")
	ctx := context.Background()

	url, err := s.Put(ctx, "schools/x/logo.png", bytes.NewReader([]byte("data")), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/schools/x/logo.png", url)
	assert.FileExists(t, filepath.Join(dir, "schools", "x", "logo.png"))

	require.NoError(t, s.Trash(ctx, url))
	assert.NoFileExists(t, filepath.Join(dir, "schools", "x", "logo.png"))
	trashed := filepath.Join(dir, "trash", "schools", "x", "logo.png")
	assert.FileExists(t, trashed)

	// foreign or missing URLs are ignored
	assert.NoError(t, s.Trash(ctx, "https://elsewhere.test/a.png"))
	assert.NoError(t, s.Trash(ctx, "/uploads/missing.png"))

	n, err := s.PurgeTrash(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(trashed, old, old))
	n, err = s.PurgeTrash(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoFileExists(t, trashed)
}

func TestPurgeSoftDeleted(t *testing.T) {
	db := testutil.NewDB(t)
	school := testutil.School(t, db, "École Reaper")
	oldSubject := testutil.Subject(t, db, school.SchoolID, "Latin", 1)
	recentSubject := testutil.Subject(t, db, school.SchoolID, "Grec", 1)
	testutil.Subject(t, db, school.SchoolID, "Maths", 1)

	require.NoError(t, db.Delete(oldSubject).Error)
	require.NoError(t, db.Delete(recentSubject).Error)
	require.NoError(t, db.Unscoped().Model(oldSubject).
		Update("subject_deleted_at", time.Now().UTC().Add(-60*24*time.Hour)).Error)

	n := storage.PurgeSoftDeleted(context.Background(), db, time.Now().UTC().Add(-30*24*time.Hour))
	assert.Equal(t, int64(1), n)

	var names []string
	require.NoError(t, db.Unscoped().Model(&subjectModel.SubjectModel{}).Pluck("subject_name", &names).Error)
	assert.ElementsMatch(t, []string{"Grec", "Maths"}, names)
}

type brokenStore struct{ storage.FileStore }

func (brokenStore) Trash(context.Context, string) error { return errors.New("bucket unreachable") }

type recordingReporter struct{ errs []error }

func (r *recordingReporter) Error(err error, _ map[string]interface{}) { r.errs = append(r.errs, err) }
func (r *recordingReporter) Close()                                    {}

func TestTrashReplacedReportsFailure(t *testing.T) {
	rec := &recordingReporter{}
	prev := reporter.Default
	reporter.Default = rec
	t.Cleanup(func() { reporter.Default = prev })

	storage.TrashReplaced(context.Background(), brokenStore{}, "/uploads/schools/x/logo-1.png")
	require.Len(t, rec.errs, 1)
	assert.EqualError(t, rec.errs[0], "bucket unreachable")

	dir := t.TempDir()
	store := storage.NewLocalStore(dir, "/uploads")
	url, err := store.Put(context.Background(), "schools/x/logo-2.png", bytes.NewReader([]byte("png")), "image/png")
	require.NoError(t, err)
	storage.TrashReplaced(context.Background(), store, url)
	assert.Len(t, rec.errs, 1, "successful trash is not reported")
	_, err = os.Stat(filepath.Join(dir, "schools", "x", "logo-2.png"))
	assert.True(t, os.IsNotExist(err))
}
