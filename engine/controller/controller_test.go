package controller

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/event"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/ident"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/instance"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/light"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/material"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
)

func newInstance(t testing.TB, id ident.ID) instance.Instance {
	t.Helper()
	desc, err := instance.NewDescription("box")
	require.NoError(t, err)
	mat, err := material.Untextured(material.NewDescription())
	require.NoError(t, err)
	i, err := instance.New(id, desc, mat)
	require.NoError(t, err)
	return i
}

func newTexture(t testing.TB, name string) *model.Texture {
	t.Helper()
	desc, err := model.NewTextureDescription(name, name+".png")
	require.NoError(t, err)
	tex, err := model.NewTexture(desc, 1, 1, make([]byte, 4))
	require.NoError(t, err)
	return tex
}

func TestPutAndGetInstance(t *testing.T) {
	c := NewController()
	id := c.FreshInstanceID()
	require.NoError(t, c.PutInstance(newInstance(t, id)))

	assert.True(t, c.InstanceExists(id))
	got, ok := c.InstanceGet(id)
	require.True(t, ok)
	assert.Equal(t, id, got.ID())
	assert.Len(t, c.InstancesGetAll(), 1)
}

func TestRejectsMissingValues(t *testing.T) {
	c := NewController()
	assert.True(t, errors.Is(c.PutInstance(instance.Instance{}), common.ErrPrecondition))
	assert.True(t, errors.Is(c.PutLight(nil), common.ErrPrecondition))
	assert.True(t, errors.Is(c.PutTexture(nil), common.ErrPrecondition))
	assert.True(t, errors.Is(c.PutModel(nil), common.ErrPrecondition))
	assert.True(t, errors.Is(c.Replace(nil), common.ErrPrecondition))
	assert.Zero(t, c.Snapshot().InstanceCount())
}

func TestRemoveUnknownIsNoOp(t *testing.T) {
	c := NewController()
	require.NoError(t, c.PutInstance(newInstance(t, 1)))
	before := c.Snapshot()

	published := 0
	c.AddListener(func(event.Change) error {
		published++
		return nil
	})

	assert.False(t, c.InstanceRemove(42))
	assert.False(t, c.LightRemove(42))
	assert.False(t, c.TextureRemove("nope"))
	assert.False(t, c.ModelRemove("nope"))
	assert.Same(t, before, c.Snapshot())
	assert.Zero(t, published)
}

func TestReadersKeepTheirSnapshot(t *testing.T) {
	c := NewController()
	require.NoError(t, c.PutInstance(newInstance(t, 1)))
	held := c.Snapshot()

	require.NoError(t, c.PutInstance(newInstance(t, 2)))
	assert.True(t, c.InstanceRemove(1))

	assert.Equal(t, 1, held.InstanceCount())
	assert.True(t, held.HasInstance(1))
	assert.False(t, c.InstanceExists(1))
}

func TestListenersSeeCategoryAndSnapshot(t *testing.T) {
	c := NewController()
	var changes []event.Change
	c.AddListener(func(ch event.Change) error {
		changes = append(changes, ch)
		return nil
	})

	l, err := light.NewDirectional(c.FreshLightID(), mgl32.Vec3{0, -1, 0})
	require.NoError(t, err)
	require.NoError(t, c.PutLight(l))
	require.NoError(t, c.PutTexture(newTexture(t, "t")))

	require.Len(t, changes, 2)
	assert.Equal(t, event.CategoryLight, changes[0].Category)
	assert.Equal(t, event.CategoryTexture, changes[1].Category)
	assert.Same(t, c.Snapshot(), changes[1].Snapshot)
	assert.Same(t, changes[0].Snapshot, changes[1].Previous)
}

func TestFailingListenerDoesNotRollBack(t *testing.T) {
	c := NewController()
	c.AddListener(func(event.Change) error { return errors.New("boom") })
	c.AddListener(func(event.Change) error { panic("kaboom") })

	require.NoError(t, c.PutInstance(newInstance(t, 7)))
	assert.True(t, c.InstanceExists(7))
}

func TestConcurrentWritersLoseNothing(t *testing.T) {
	const writers, perWriter = 8, 200
	c := NewController(WithHistoryDepth(0))

	kept := make([][]ident.ID, writers)
	var start, done sync.WaitGroup
	start.Add(1)
	for w := 0; w < writers; w++ {
		done.Add(1)
		go func() {
			defer done.Done()
			start.Wait()
			for i := 0; i < perWriter; i++ {
				keep := c.FreshInstanceID()
				drop := c.FreshInstanceID()
				assert.NoError(t, c.PutInstance(newInstance(t, keep)))
				assert.NoError(t, c.PutInstance(newInstance(t, drop)))
				assert.True(t, c.InstanceRemove(drop))
				kept[w] = append(kept[w], keep)
			}
		}()
	}
	start.Done()
	done.Wait()

	want := map[ident.ID]bool{}
	for _, ids := range kept {
		for _, id := range ids {
			want[id] = true
		}
	}
	s := c.Snapshot()
	require.Equal(t, writers*perWriter, s.InstanceCount())
	for _, i := range s.Instances() {
		assert.True(t, want[i.ID()], "unexpected instance %v", i.ID())
	}
}

func TestNotificationsFollowCommitOrder(t *testing.T) {
	c := NewController()
	entered := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	var seen []*scene.Snapshot
	first := true
	c.AddListener(func(ch event.Change) error {
		mu.Lock()
		seen = append(seen, ch.Snapshot)
		block := first
		first = false
		mu.Unlock()
		if block {
			close(entered)
			<-release
		}
		return nil
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, c.PutInstance(newInstance(t, 1)))
	}()
	<-entered

	// The first notification is still being delivered; this commit lands
	// after it and must be delivered after it.
	require.NoError(t, c.PutInstance(newInstance(t, 2)))
	assert.Equal(t, 2, c.Snapshot().InstanceCount())
	close(release)
	<-done

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.Equal(t, 1, seen[0].InstanceCount())
	assert.Equal(t, 2, seen[1].InstanceCount())
	assert.Same(t, c.Snapshot(), seen[len(seen)-1])
}

func TestListenerMayWrite(t *testing.T) {
	c := NewController()
	var seen []int
	c.AddListener(func(ch event.Change) error {
		seen = append(seen, ch.Snapshot.InstanceCount())
		if ch.Snapshot.InstanceCount() == 1 {
			return c.PutInstance(newInstance(t, 2))
		}
		return nil
	})

	require.NoError(t, c.PutInstance(newInstance(t, 1)))
	assert.Equal(t, []int{1, 2}, seen)
	assert.Equal(t, 2, c.Snapshot().InstanceCount())
}

func TestUndoRedo(t *testing.T) {
	c := NewController()
	assert.False(t, c.Undo())
	s0 := c.Snapshot()

	require.NoError(t, c.PutInstance(newInstance(t, 1)))
	s1 := c.Snapshot()
	require.NoError(t, c.PutInstance(newInstance(t, 2)))
	s2 := c.Snapshot()

	require.True(t, c.Undo())
	assert.Same(t, s1, c.Snapshot())
	require.True(t, c.Undo())
	assert.Same(t, s0, c.Snapshot())
	assert.False(t, c.Undo())

	require.True(t, c.Redo())
	assert.Same(t, s1, c.Snapshot())

	// a new change clears the redo stack
	require.NoError(t, c.PutInstance(newInstance(t, 3)))
	assert.False(t, c.Redo())
	assert.NotSame(t, s2, c.Snapshot())
}

func TestHistoryDepthIsBounded(t *testing.T) {
	c := NewController(WithHistoryDepth(2))
	for i := 0; i < 5; i++ {
		require.NoError(t, c.PutInstance(newInstance(t, ident.ID(i))))
	}
	assert.True(t, c.Undo())
	assert.True(t, c.Undo())
	assert.False(t, c.Undo())
	assert.Equal(t, 3, c.Snapshot().InstanceCount())
}

func TestReplaceReservesIDs(t *testing.T) {
	loaded := scene.Empty().AddInstance(newInstance(t, 41))
	l, err := light.NewSpherical(9, mgl32.Vec3{}, 1)
	require.NoError(t, err)
	loaded = loaded.AddLight(l)

	c := NewController()
	var got event.Category = -1
	c.AddListener(func(ch event.Change) error {
		got = ch.Category
		return nil
	})
	require.NoError(t, c.Replace(loaded))
	assert.Equal(t, event.CategoryScene, got)
	assert.Same(t, loaded, c.Snapshot())
	assert.Equal(t, ident.ID(42), c.FreshInstanceID())
	assert.Equal(t, ident.ID(10), c.FreshLightID())
}

func TestOutOfRangeIDsAreRejected(t *testing.T) {
	c := NewController()
	before := c.Snapshot()
	last := ident.ID(math.MaxUint64)

	var err error
	require.NotPanics(t, func() { err = c.PutInstance(newInstance(t, 1).WithID(last)) })
	var pe *common.PreconditionError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, "instance.id", pe.Field)

	l, lerr := light.NewSpherical(1, mgl32.Vec3{}, 1)
	require.NoError(t, lerr)
	require.NotPanics(t, func() { err = c.PutLight(l.WithID(last)) })
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, "light.id", pe.Field)

	loaded := scene.Empty().AddInstance(newInstance(t, 1).WithID(last))
	require.NotPanics(t, func() { err = c.Replace(loaded) })
	assert.True(t, errors.Is(err, common.ErrPrecondition))

	assert.Same(t, before, c.Snapshot())
	assert.Equal(t, ident.ID(0), c.FreshInstanceID())

	require.NoError(t, c.PutInstance(newInstance(t, ident.Max)))
	assert.True(t, c.InstanceExists(ident.Max))
}

func TestInitialSnapshotReservesIDs(t *testing.T) {
	c := NewController(WithInitialSnapshot(scene.Empty().AddInstance(newInstance(t, 5))))
	assert.True(t, c.InstanceExists(5))
	assert.Equal(t, ident.ID(6), c.FreshInstanceID())
}

func TestPutTextureRebindsInstances(t *testing.T) {
	c := NewController()
	require.NoError(t, c.PutTexture(newTexture(t, "wood")))

	albedo, err := material.NewAlbedo(mgl32.Vec4{1, 1, 1, 1}, "wood", 1)
	require.NoError(t, err)
	mat, err := material.Resolve(material.NewDescription(material.WithAlbedo(albedo)), c.Snapshot().Texture)
	require.NoError(t, err)
	desc, err := instance.NewDescription("box")
	require.NoError(t, err)
	i, err := instance.New(c.FreshInstanceID(), desc, mat)
	require.NoError(t, err)
	require.NoError(t, c.PutInstance(i))

	reloaded := newTexture(t, "wood")
	require.NoError(t, c.PutTexture(reloaded))

	got, ok := c.InstanceGet(i.ID())
	require.True(t, ok)
	assert.Same(t, reloaded, got.Material().Texture(material.SlotAlbedo))
	assert.Equal(t, 1, c.Snapshot().TextureCount())
}
