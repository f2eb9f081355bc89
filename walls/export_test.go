package walls

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportFoundryFieldMapping(t *testing.T) {
	light := 12.5
	segs := []WallSegment{
		{
			ID:    "SEG1",
			A:     orb.Point{10, 20},
			B:     orb.Point{110, 20},
			Light: BlockNormal,
			Sight: BlockNormal,
			Sound: BlockLimited,
			Move:  BlockNormal,
		},
		{
			ID:        "SEG2",
			A:         orb.Point{110, 20},
			B:         orb.Point{110, 120},
			Light:     BlockNone,
			IsDoor:    true,
			DoorState: DoorOpen,
			Threshold: Threshold{Light: &light, Attenuation: true},
		},
	}

	docs := ExportFoundry(segs)
	require.Len(t, docs, 2)

	assert.Equal(t, [4]float64{10, 20, 110, 20}, docs[0].C)
	assert.Equal(t, 20, docs[0].Light)
	assert.Equal(t, 10, docs[0].Sound)
	assert.Equal(t, 0, docs[0].Door)
	assert.Equal(t, 0, docs[0].DS)
	assert.Nil(t, docs[0].Threshold.Light)

	assert.Equal(t, 1, docs[1].Door)
	assert.Equal(t, 1, docs[1].DS)
	assert.Equal(t, 0, docs[1].Light)
	require.NotNil(t, docs[1].Threshold.Light)
	assert.Equal(t, 12.5, *docs[1].Threshold.Light)
	assert.True(t, docs[1].Threshold.Attenuation)

	// Export mints fresh document IDs.
	assert.Len(t, docs[0].ID, 16)
	assert.NotEqual(t, docs[0].ID, docs[1].ID)
}

func TestExportFoundryJSONShape(t *testing.T) {
	docs := ExportFoundry([]WallSegment{{A: orb.Point{0, 0}, B: orb.Point{50, 0}, Sight: BlockNormal}})
	data, err := json.Marshal(docs)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)

	for _, key := range []string{"light", "sight", "sound", "move", "c", "_id", "dir", "door", "ds", "threshold", "flags"} {
		assert.Contains(t, decoded[0], key)
	}
	// Unset threshold channels serialize as null.
	threshold := decoded[0]["threshold"].(map[string]any)
	assert.Nil(t, threshold["light"])
}

func TestExportUVTTRoundTrip(t *testing.T) {
	segs := []WallSegment{
		{A: orb.Point{0, 0}, B: orb.Point{70, 0}},
		{A: orb.Point{70, 0}, B: orb.Point{70, 140}},
	}

	m, err := ExportUVTT(segs, UVTTOptions{
		ImageWidth:    700,
		ImageHeight:   490,
		PixelsPerGrid: 70,
	})
	require.NoError(t, err)

	assert.Equal(t, 0.3, m.Format)
	assert.Equal(t, 70.0, m.Resolution.PixelsPerGrid)
	assert.Equal(t, UVTTPoint{X: 10, Y: 7}, m.Resolution.MapSize)

	require.Len(t, m.LineOfSight, len(segs))
	require.Len(t, m.PixelWalls, len(segs))
	for i, wall := range m.LineOfSight {
		require.Len(t, wall, 2)
		for j, p := range wall {
			pixel := m.PixelWalls[i][j]
			assert.Equal(t, pixel[0], p.X*70, "wall %d point %d x", i, j)
			assert.Equal(t, pixel[1], p.Y*70, "wall %d point %d y", i, j)
		}
	}
}

func TestExportUVTTDefaults(t *testing.T) {
	m, err := ExportUVTT(nil, UVTTOptions{PixelsPerGrid: 70})
	require.NoError(t, err)

	assert.NotNil(t, m.Lights)
	assert.Empty(t, m.Lights)
	assert.NotNil(t, m.Portals)
	assert.NotNil(t, m.ObjectsLineOfSight)
	assert.Equal(t, "ffffffff", m.Environment.AmbientLight)
	assert.False(t, m.Environment.BakedLighting)
}

func TestExportUVTTRejectsBadGrid(t *testing.T) {
	_, err := ExportUVTT(nil, UVTTOptions{PixelsPerGrid: 0})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = ExportUVTT(nil, UVTTOptions{PixelsPerGrid: -5})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestExportUVTTPixelWallsNotSerialized(t *testing.T) {
	m, err := ExportUVTT([]WallSegment{{A: orb.Point{0, 0}, B: orb.Point{70, 0}}}, UVTTOptions{PixelsPerGrid: 70})
	require.NoError(t, err)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "PixelWalls")
	assert.Contains(t, string(data), "line_of_sight")
}

func TestExportUVTTCarriesLights(t *testing.T) {
	lights := []UVTTLight{{
		Position:  UVTTPoint{X: 3, Y: 4},
		Range:     2,
		Intensity: 1,
		Color:     "ffffcc88",
		Shadows:   true,
	}}
	m, err := ExportUVTT(nil, UVTTOptions{PixelsPerGrid: 70, Lights: lights})
	require.NoError(t, err)
	assert.Equal(t, lights, m.Lights)
}
