package adpreview

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campainly/campaigner/pkg/api"
	"github.com/campainly/campaigner/pkg/constants"
	"github.com/campainly/campaigner/pkg/errors"
	"github.com/campainly/campaigner/pkg/types"
)

func png(name string) api.File {
	return api.File{Name: name, ContentType: "image/png", Data: []byte(name)}
}

func mediaOf(n int) []types.MediaItem {
	items := make([]types.MediaItem, n)
	for i := range items {
		items[i] = types.MediaItem{URL: fmt.Sprintf("https://cdn/%d.png", i), Type: types.MediaImage}
	}
	return items
}

type fakeUploader struct {
	mu    sync.Mutex
	calls [][]api.File
	resp  *api.AdUploadResponse
	err   error
	block chan struct{}
}

func (f *fakeUploader) UploadAdMedia(_ context.Context, files []api.File) (*api.AdUploadResponse, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, files)
	return f.resp, f.err
}

func TestMode(t *testing.T) {
	t.Run("toggle", func(t *testing.T) {
		e := New(types.AdData{})
		assert.Equal(t, Viewing, e.Mode())
		assert.Equal(t, Editing, e.ToggleEdit())
		assert.Equal(t, Viewing, e.ToggleEdit())
	})

	t.Run("fixed editable", func(t *testing.T) {
		e := New(types.AdData{}, WithEditable(true))
		assert.Equal(t, Editing, e.Mode())
		assert.Equal(t, Editing, e.ToggleEdit())
	})

	t.Run("fixed read-only", func(t *testing.T) {
		e := New(types.AdData{}, WithEditable(false))
		assert.Equal(t, Viewing, e.ToggleEdit())
	})
}

func TestSetField_ReportsFullAd(t *testing.T) {
	var got []types.AdData
	e := New(types.AdData{Headline: "h", ButtonText: "b"}, OnUpdate(func(ad types.AdData) {
		got = append(got, ad)
	}))

	e.SetField(types.FieldPrimaryText, "p")
	e.SetField(types.FieldHeadline, "")

	require.Len(t, got, 2)
	assert.Equal(t, types.AdData{Headline: "h", PrimaryText: "p", ButtonText: "b"}, got[0])
	assert.Equal(t, types.AdData{Headline: "", PrimaryText: "p", ButtonText: "b"}, got[1])
}

func TestRemoveMedia_IndexCorrection(t *testing.T) {
	t.Run("removing last while on it steps back", func(t *testing.T) {
		e := New(types.AdData{Media: mediaOf(3)})
		e.Next()
		e.Next()
		require.Equal(t, 2, e.Current())

		e.RemoveMedia(2)
		assert.Equal(t, 1, e.Current())
		assert.Len(t, e.Ad().Media, 2)
	})

	t.Run("removing earlier item keeps position", func(t *testing.T) {
		e := New(types.AdData{Media: mediaOf(3)})
		e.Next()
		e.RemoveMedia(0)
		assert.Equal(t, 1, e.Current())
	})

	t.Run("removing only item stays at zero", func(t *testing.T) {
		e := New(types.AdData{Media: mediaOf(1)})
		e.RemoveMedia(0)
		assert.Equal(t, 0, e.Current())
		assert.Empty(t, e.Ad().Media)
	})

	t.Run("out of range ignored", func(t *testing.T) {
		e := New(types.AdData{Media: mediaOf(1)})
		e.RemoveMedia(5)
		assert.Len(t, e.Ad().Media, 1)
	})
}

func TestCarouselClamps(t *testing.T) {
	e := New(types.AdData{Media: mediaOf(2)})
	assert.Equal(t, 0, e.Prev())
	assert.Equal(t, 1, e.Next())
	assert.Equal(t, 1, e.Next())
	assert.Equal(t, 0, e.Prev())
}

func TestBrokenMedia(t *testing.T) {
	e := New(types.AdData{Media: mediaOf(1)})
	u := "https://cdn/0.png"
	assert.False(t, e.IsBroken(u))
	e.MarkBroken(u)
	assert.True(t, e.IsBroken(u))
	e.MarkLoaded(u)
	assert.False(t, e.IsBroken(u))
}

func TestAddFiles(t *testing.T) {
	t.Run("filters and keeps order", func(t *testing.T) {
		var updates int
		e := New(types.AdData{}, OnUpdate(func(types.AdData) { updates++ }))

		// slower conversions for earlier files must not reorder the batch
		delays := map[string]time.Duration{"a.png": 30 * time.Millisecond, "b.mp4": 0}
		e.cfg.converter = func(f api.File) (string, error) {
			time.Sleep(delays[f.Name])
			return DataURL(f)
		}

		n, err := e.AddFiles(context.Background(), []api.File{
			png("a.png"),
			{Name: "notes.txt", ContentType: "text/plain", Data: []byte("x")},
			{Name: "b.mp4", ContentType: "video/mp4", Data: []byte("v")},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, 1, updates)

		media := e.Ad().Media
		require.Len(t, media, 2)
		assert.Equal(t, "data:image/png;base64,YS5wbmc=", media[0].URL)
		assert.Equal(t, types.MediaImage, media[0].Type)
		assert.Equal(t, types.MediaVideo, media[1].Type)
		assert.Equal(t, 2, e.Staged())
	})

	t.Run("nothing acceptable", func(t *testing.T) {
		e := New(types.AdData{})
		n, err := e.AddFiles(context.Background(), []api.File{{Name: "a.pdf", ContentType: "application/pdf"}})
		assert.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("cap", func(t *testing.T) {
		e := New(types.AdData{Media: mediaOf(constants.MaxMediaItems - 1)})
		n, err := e.AddFiles(context.Background(), []api.File{png("a.png"), png("b.png")})
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Len(t, e.Ad().Media, constants.MaxMediaItems)
		assert.False(t, e.CanAddMedia())
		assert.Equal(t, 1, e.Staged())
	})

	t.Run("conversion failure drops only that file", func(t *testing.T) {
		e := New(types.AdData{}, WithConverter(func(f api.File) (string, error) {
			if f.Name == "bad.png" {
				return "", fmt.Errorf("unreadable")
			}
			return DataURL(f)
		}))
		n, err := e.AddFiles(context.Background(), []api.File{png("bad.png"), png("good.png")})
		assert.Error(t, err)
		assert.True(t, errors.IsMalformed(err))
		assert.Equal(t, 1, n)
		assert.Equal(t, 1, e.Staged())
	})
}

func TestSubmit(t *testing.T) {
	newAd := func() types.AdData {
		return types.AdData{Headline: "h", PrimaryText: "p", ButtonText: "b"}
	}

	t.Run("uploads and reports urls", func(t *testing.T) {
		up := &fakeUploader{resp: &api.AdUploadResponse{AdID: "1", MediaURLs: []string{"https://cdn/x.png"}}}
		var reported []string
		e := New(newAd(), WithUploader(up), OnUploadComplete(func(_ context.Context, urls []string) {
			reported = urls
		}))
		_, err := e.AddFiles(context.Background(), []api.File{png("x.png")})
		require.NoError(t, err)
		require.True(t, e.CanSubmit())

		urls, err := e.Submit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"https://cdn/x.png"}, urls)
		assert.Equal(t, urls, reported)
		assert.Equal(t, "https://cdn/x.png", e.Ad().Media[0].URL)
		assert.Zero(t, e.Staged())
		assert.False(t, e.CanSubmit())
		require.Len(t, up.calls, 1)
		assert.Equal(t, "x.png", up.calls[0][0].Name)
	})

	t.Run("nothing staged", func(t *testing.T) {
		e := New(newAd(), WithUploader(&fakeUploader{}))
		assert.False(t, e.CanSubmit())
		_, err := e.Submit(context.Background())
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("required copy unless media only", func(t *testing.T) {
		up := &fakeUploader{resp: &api.AdUploadResponse{}}
		e := New(types.AdData{}, WithUploader(up))
		_, _ = e.AddFiles(context.Background(), []api.File{png("x.png")})
		assert.False(t, e.CanSubmit())

		mediaOnly := New(types.AdData{}, WithUploader(up), WithMediaOnly())
		_, _ = mediaOnly.AddFiles(context.Background(), []api.File{png("x.png")})
		assert.True(t, mediaOnly.CanSubmit())
	})

	t.Run("in flight guard", func(t *testing.T) {
		up := &fakeUploader{resp: &api.AdUploadResponse{}, block: make(chan struct{})}
		e := New(newAd(), WithUploader(up))
		_, _ = e.AddFiles(context.Background(), []api.File{png("x.png")})

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = e.Submit(context.Background())
		}()
		require.Eventually(t, func() bool { return !e.CanSubmit() }, time.Second, 2*time.Millisecond)

		_, err := e.Submit(context.Background())
		assert.ErrorIs(t, err, errors.ErrInFlight)

		close(up.block)
		<-done
	})

	t.Run("failure keeps staging", func(t *testing.T) {
		up := &fakeUploader{err: errors.NewAPIError("/ads", 500, "")}
		e := New(newAd(), WithUploader(up))
		_, _ = e.AddFiles(context.Background(), []api.File{png("x.png")})

		_, err := e.Submit(context.Background())
		assert.True(t, errors.IsStatus(err))
		assert.Equal(t, 1, e.Staged())
		assert.True(t, e.CanSubmit())
	})

	t.Run("removed media is not uploaded", func(t *testing.T) {
		up := &fakeUploader{resp: &api.AdUploadResponse{MediaURLs: []string{"u"}}}
		e := New(newAd(), WithUploader(up))
		_, _ = e.AddFiles(context.Background(), []api.File{png("a.png"), png("b.png")})
		e.RemoveMedia(0)

		_, err := e.Submit(context.Background())
		require.NoError(t, err)
		require.Len(t, up.calls[0], 1)
		assert.Equal(t, "b.png", up.calls[0][0].Name)
	})

	t.Run("no uploader", func(t *testing.T) {
		_, err := New(newAd()).Submit(context.Background())
		assert.Error(t, err)
	})
}
