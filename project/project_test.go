package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"lcxl-sequence/sequencer"
	"lcxl-sequence/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.Local)
	s := NewStore(t.TempDir())
	s.now = func() time.Time { return now }
	return s, &now
}

func sampleState() session.State {
	st := session.NewState()
	st.Layout = 3
	st.OutputLane = 5
	st.Faders[2] = 100
	st.Knobs[0][7] = 64
	st.Knobs[3][20] = 127
	st.Buttons[4] = true
	l := &st.Lanes[2]
	l.ToggleStep(0)
	l.ToggleStep(9)
	l.SetStepLengthA(12)
	l.SetStepLengthB(5)
	l.SetValueLengthA(6)
	l.SetProbability(sequencer.SideA, 0.25)
	l.SetBias(0.75)
	l.Competition = sequencer.Momentum
	l.Routing = sequencer.Burst
	l.A.Range = sequencer.Range10V
	l.B.Bipolar = true
	return st
}

func TestPatchRoundTrip(t *testing.T) {
	st := sampleState()
	got := FromState(st).State()

	assert.Equal(t, st.Layout, got.Layout)
	assert.Equal(t, st.OutputLane, got.OutputLane)
	assert.Equal(t, st.Faders, got.Faders)
	assert.Equal(t, st.Knobs, got.Knobs)
	assert.Equal(t, st.Buttons, got.Buttons)
	assert.Equal(t, FromLane(&st.Lanes[2]), FromLane(&got.Lanes[2]))
	assert.Equal(t, uint16(1|1<<9), got.Lanes[2].Pattern())
}

func TestPatchClampsOutOfRange(t *testing.T) {
	p := FromState(session.NewState())
	p.Faders[0] = 400
	p.Knobs[1][0] = -3
	p.Lanes[0].StepLengthA = 99
	p.Lanes[0].Competition = 42
	p.Lanes[0].RangeB = -1

	st := p.State()
	assert.Equal(t, 127, st.Faders[0])
	assert.Equal(t, 0, st.Knobs[1][0])
	assert.Equal(t, 16, st.Lanes[0].A.StepLength)
	assert.Equal(t, sequencer.Independent, st.Lanes[0].Competition)
	assert.Equal(t, sequencer.Range5V, st.Lanes[0].B.Range)
}

func TestSaveAndLoadProject(t *testing.T) {
	s, now := testStore(t)

	first, err := s.SaveProject("live set", "", FromState(session.NewState()))
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14_09-26-53.json", first)

	*now = now.Add(time.Minute)
	second, err := s.SaveProject("live set", "after soundcheck", FromState(sampleState()))
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14_09-27-53_after-soundcheck.json", second)

	projects, err := s.ListProjects()
	require.NoError(t, err)
	assert.Equal(t, []string{"live-set"}, projects)

	saves, err := s.ListSaves("live set")
	require.NoError(t, err)
	require.Len(t, saves, 2)
	assert.Equal(t, second, saves[0].Filename)
	assert.Equal(t, "after-soundcheck", saves[0].Name)
	assert.Empty(t, saves[1].Name)

	// empty filename picks the newest
	p, err := s.LoadProject("live set", "")
	require.NoError(t, err)
	assert.Equal(t, Version, p.Version)
	assert.Equal(t, 3, p.Layout)

	p, err = s.LoadProject("live set", first)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Layout)
}

func TestLoadProjectErrors(t *testing.T) {
	s, _ := testStore(t)

	_, err := s.LoadProject("missing", "")
	assert.Error(t, err)

	dir := s.ProjectDir("broken")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2026-01-01_00-00-00.json"), []byte("{"), 0644))
	_, err = s.LoadProject("broken", "")
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "2026-01-02_00-00-00.json"), []byte(`{"version": 99}`), 0644))
	_, err = s.LoadProject("broken", "")
	assert.ErrorContains(t, err, "version 99")
}

func TestListSavesSkipsForeignFiles(t *testing.T) {
	s, _ := testStore(t)
	dir := s.ProjectDir("p")
	require.NoError(t, os.MkdirAll(dir, 0755))
	for _, name := range []string{"notes.txt", "short.json", "2026-13-40_00-00-00.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	saves, err := s.ListSaves("p")
	require.NoError(t, err)
	assert.Empty(t, saves)
}

func TestRenameAndDelete(t *testing.T) {
	s, _ := testStore(t)
	name, err := s.SaveProject("p", "draft", FromState(session.NewState()))
	require.NoError(t, err)

	renamed, err := s.RenameSave("p", name, "final mix")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14_09-26-53_final-mix.json", renamed)

	_, err = s.RenameSave("p", "nope.json", "x")
	assert.Error(t, err)

	require.NoError(t, s.DeleteSave("p", renamed))
	saves, err := s.ListSaves("p")
	require.NoError(t, err)
	assert.Empty(t, saves)

	require.NoError(t, s.DeleteProject("p"))
	projects, err := s.ListProjects()
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestPresets(t *testing.T) {
	s, _ := testStore(t)

	names, err := s.ListPresets()
	require.NoError(t, err)
	assert.Empty(t, names)

	st := sampleState()
	lane := FromLane(&st.Lanes[2])
	require.NoError(t, s.SavePreset("bouncy bass", lane))
	require.NoError(t, s.SavePreset("empty", FromLane(&st.Lanes[0])))
	assert.Error(t, s.SavePreset("", lane))

	names, err = s.ListPresets()
	require.NoError(t, err)
	assert.Equal(t, []string{"bouncy-bass", "empty"}, names)

	got, err := s.LoadPreset("bouncy bass")
	require.NoError(t, err)
	assert.Equal(t, lane, got)

	_, err = s.LoadPreset("missing")
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a-b-c-d", sanitizeFilename("a b/c:d"))
	assert.Equal(t, "what", sanitizeFilename("wh*a?t"))
}
