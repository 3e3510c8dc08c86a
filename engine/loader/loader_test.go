package loader

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/controller"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
)

func writePNG(t *testing.T, path string, w, h int, fill func(x, y int) color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, fill(x, y))
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func newTestLoader(t *testing.T, opts ...LoaderBuilderOption) Loader {
	l := NewLoader(append([]LoaderBuilderOption{WithWorkers(2)}, opts...)...)
	t.Cleanup(l.Close)
	return l
}

func TestLoadTexturePNG(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "rg.png"), 2, 1, func(x, _ int) color.NRGBA {
		if x == 0 {
			return color.NRGBA{R: 255, A: 255}
		}
		return color.NRGBA{G: 255, A: 255}
	})
	l := newTestLoader(t, WithRoot(dir))

	desc, err := model.NewTextureDescription("rg", "rg.png")
	require.NoError(t, err)
	tex, err := l.LoadTexture(desc).Wait(testContext(t))
	require.NoError(t, err)

	assert.Equal(t, "rg", tex.Name())
	assert.Equal(t, "rg.png", tex.Description().Path())
	assert.Equal(t, 2, tex.Width())
	assert.Equal(t, 1, tex.Height())
	assert.Equal(t, []byte{255, 0, 0, 255, 0, 255, 0, 255}, tex.Pixels())
}

func TestLoadTextureDownscales(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "wide.png"), 8, 4, func(_, _ int) color.NRGBA {
		return color.NRGBA{R: 10, G: 20, B: 30, A: 255}
	})
	l := newTestLoader(t, WithRoot(dir), WithMaxTextureSize(2))

	desc, err := model.NewTextureDescription("wide", "wide.png")
	require.NoError(t, err)
	tex, err := l.LoadTexture(desc).Wait(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, 2, tex.Width())
	assert.Equal(t, 1, tex.Height())
}

func TestFitWithin(t *testing.T) {
	assert.Equal(t, image.Rect(0, 0, 256, 128), fitWithin(1024, 512, 256))
	assert.Equal(t, image.Rect(0, 0, 1, 256), fitWithin(2, 4096, 256))
}

func TestConcurrentRequestsShareFuture(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quad.obj"), []byte(quadOBJ), 0o644))
	l := newTestLoader(t, WithRoot(dir))

	desc, err := model.NewMeshDescription("quad", "quad.obj")
	require.NoError(t, err)
	a := l.LoadMesh(desc)
	b := l.LoadMesh(desc)
	assert.Same(t, a, b)

	other, err := model.NewMeshDescription("quad-copy", "quad.obj")
	require.NoError(t, err)
	assert.NotSame(t, a, l.LoadMesh(other))

	mesh, err := a.Wait(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, 2, mesh.TriangleCount())

	meshes, textures := l.Cached()
	assert.Equal(t, 2, meshes)
	assert.Equal(t, 0, textures)
}

func TestFailedLoadIsNotCached(t *testing.T) {
	l := newTestLoader(t, WithRoot(t.TempDir()))
	desc, err := model.NewMeshDescription("missing", "missing.obj")
	require.NoError(t, err)

	f := l.LoadMesh(desc)
	_, err = f.Wait(testContext(t))
	require.Error(t, err)

	meshes, _ := l.Cached()
	assert.Equal(t, 0, meshes)
	assert.NotSame(t, f, l.LoadMesh(desc))
}

func TestUnsupportedMeshFormat(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mesh.fbx"), []byte("x"), 0o644))
	l := newTestLoader(t, WithRoot(dir))

	desc, err := model.NewMeshDescription("m", "mesh.fbx")
	require.NoError(t, err)
	_, err = l.LoadMesh(desc).Wait(testContext(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".fbx")
}

func TestResultBeforeResolve(t *testing.T) {
	f := newFuture[int]()
	_, err := f.Result()
	assert.ErrorIs(t, err, ErrPending)

	assert.True(t, f.resolve(7, nil))
	assert.False(t, f.resolve(8, nil))
	v, err := f.Result()
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestWaitHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newFuture[int]().Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveIntoStoresModel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quad.obj"), []byte(quadOBJ), 0o644))
	l := newTestLoader(t, WithRoot(dir))
	ctrl := controller.NewController()

	mesh, err := model.NewMeshDescription("quad-mesh", "quad.obj")
	require.NoError(t, err)
	desc, err := model.NewModelDescription("quad", mesh)
	require.NoError(t, err)

	require.NoError(t, ResolveInto(testContext(t), ctrl, l.LoadModel(desc)))
	m, ok := ctrl.ModelGet("quad")
	require.True(t, ok)
	assert.Equal(t, "quad-mesh", m.Mesh().Name())
}

func TestResolveIntoFailureLeavesControllerUnchanged(t *testing.T) {
	l := newTestLoader(t, WithRoot(t.TempDir()))
	ctrl := controller.NewController()
	before := ctrl.Snapshot()

	desc, err := model.NewTextureDescription("ghost", "ghost.png")
	require.NoError(t, err)
	err = ResolveInto(testContext(t), ctrl, l.LoadTexture(desc))
	require.Error(t, err)
	assert.Same(t, before, ctrl.Snapshot())
}

func TestInvalidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tex.png")
	writePNG(t, path, 1, 1, func(_, _ int) color.NRGBA { return color.NRGBA{A: 255} })
	l := newTestLoader(t, WithRoot(dir))

	desc, err := model.NewTextureDescription("tex", "tex.png")
	require.NoError(t, err)
	first := l.LoadTexture(desc)
	_, err = first.Wait(testContext(t))
	require.NoError(t, err)

	assert.Equal(t, 1, l.Invalidate(path))
	assert.Equal(t, 0, l.Invalidate(path))
	assert.NotSame(t, first, l.LoadTexture(desc))
}

func TestClosedLoaderRejectsLoads(t *testing.T) {
	l := NewLoader(WithWorkers(1))
	l.Close()
	l.Close()

	desc, err := model.NewTextureDescription("t", "t.png")
	require.NoError(t, err)
	_, err = l.LoadTexture(desc).Wait(testContext(t))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestCloseDuringLoadsResolvesEveryFuture(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 2, 2, func(int, int) color.NRGBA { return color.NRGBA{A: 255} })
	l := NewLoader(WithWorkers(1), WithQueueSize(1), WithRoot(dir))

	const loaders, perLoader = 8, 8
	futures := make(chan *Future[*model.Texture], loaders*perLoader)
	var wg sync.WaitGroup
	for g := 0; g < loaders; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perLoader; i++ {
				desc, err := model.NewTextureDescription(fmt.Sprintf("t%d-%d", g, i), "a.png")
				if !assert.NoError(t, err) {
					return
				}
				futures <- l.LoadTexture(desc)
			}
		}()
	}
	l.Close()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		require.FailNow(t, "a load blocked on the stopped pool")
	}
	close(futures)

	for f := range futures {
		_, err := f.Wait(testContext(t))
		if err != nil {
			assert.ErrorIs(t, err, ErrClosed)
		}
	}
}
